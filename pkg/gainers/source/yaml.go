package source

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/komsit37/gainers/pkg/gainers/parse"
	"github.com/komsit37/gainers/pkg/gainers/types"
)

// YAMLSource reads companies from a file, or from every .yaml/.yml file
// under a directory in lexical order.
type YAMLSource struct {
	Path string
}

func (s YAMLSource) Load(context.Context) ([]types.Symbol, error) {
	info, err := os.Stat(s.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrSymbolFile, err)
	}
	if !info.IsDir() {
		return loadFile(s.Path)
	}

	var files []string
	err = filepath.WalkDir(s.Path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(d.Name()))
		if ext == ".yaml" || ext == ".yml" {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrSymbolFile, err)
	}
	sort.Strings(files)

	var all []types.Symbol
	for _, f := range files {
		syms, err := loadFile(f)
		if err != nil {
			return all, err
		}
		all = append(all, syms...)
	}
	return all, nil
}

func loadFile(path string) ([]types.Symbol, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrSymbolFile, err)
	}
	syms, err := parseYAML(data)
	if err != nil {
		return syms, fmt.Errorf("%s: %w", path, err)
	}
	return syms, nil
}

// parseYAML accepts two shapes:
//  1. a top-level list: "- symbol: AAA"
//  2. a map with a symbols list: "symbols: [...]"
//
// Entries may use symbol/companyName or the shorter sym/name keys.
func parseYAML(data []byte) ([]types.Symbol, error) {
	var items []map[string]any
	if err := yaml.Unmarshal(data, &items); err != nil {
		var alt struct {
			Symbols []map[string]any `yaml:"symbols"`
		}
		if err2 := yaml.Unmarshal(data, &alt); err2 != nil {
			return nil, fmt.Errorf("%w: %v", types.ErrMalformedPayload, err)
		}
		items = alt.Symbols
	}

	out := make([]types.Symbol, 0, len(items))
	for i, m := range items {
		sym := firstString(m, "symbol", "sym")
		name := firstString(m, "companyName", "name")
		if sym == "" {
			return out, &parse.Error{What: "symbol file", Index: i, Reason: "missing symbol"}
		}
		if name == "" {
			name = sym
		}
		out = append(out, types.Symbol{Ticker: sym, CompanyName: name})
	}
	return out, nil
}

func firstString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			if s := strings.TrimSpace(fmt.Sprint(v)); s != "" {
				return s
			}
		}
	}
	return ""
}
