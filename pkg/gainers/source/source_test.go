package source

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/komsit37/gainers/pkg/gainers/iex"
	"github.com/komsit37/gainers/pkg/gainers/types"
)

type stubFetcher struct {
	body []byte
	err  error
	kind iex.Kind
}

func (s *stubFetcher) Get(ctx context.Context, kind iex.Kind, symbol string) ([]byte, error) {
	s.kind = kind
	return s.body, s.err
}

func TestGainersSource(t *testing.T) {
	f := &stubFetcher{body: []byte(`[{"symbol":"AAA","companyName":"Alpha Co"}]`)}
	syms, err := GainersSource{Client: f}.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if f.kind != iex.ListGainers {
		t.Errorf("kind = %s; want list", f.kind)
	}
	want := []types.Symbol{{Ticker: "AAA", CompanyName: "Alpha Co"}}
	if !reflect.DeepEqual(syms, want) {
		t.Errorf("syms = %v; want %v", syms, want)
	}
}

func TestGainersSource_TransportError(t *testing.T) {
	f := &stubFetcher{err: &iex.FetchError{Kind: iex.ListGainers, Status: 500}}
	_, err := GainersSource{Client: f}.Load(context.Background())
	if !errors.Is(err, types.ErrTransport) {
		t.Errorf("err = %v; want ErrTransport", err)
	}
}

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestYAMLSource_Shapes(t *testing.T) {
	dir := t.TempDir()
	cases := []struct {
		name string
		body string
		want []types.Symbol
	}{
		{
			name: "list.yaml",
			body: "- symbol: AAA\n  companyName: Alpha Co\n- sym: BBB\n  name: Beta Inc\n",
			want: []types.Symbol{{Ticker: "AAA", CompanyName: "Alpha Co"}, {Ticker: "BBB", CompanyName: "Beta Inc"}},
		},
		{
			name: "map.yaml",
			body: "symbols:\n  - symbol: CCC\n    companyName: Gamma Ltd\n  - symbol: DDD\n",
			want: []types.Symbol{{Ticker: "CCC", CompanyName: "Gamma Ltd"}, {Ticker: "DDD", CompanyName: "DDD"}},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := writeFile(t, dir, tc.name, tc.body)
			got, err := YAMLSource{Path: p}.Load(context.Background())
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("got %v; want %v", got, tc.want)
			}
		})
	}
}

func TestYAMLSource_Directory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b/second.yml", "- symbol: BBB\n  companyName: Beta\n")
	writeFile(t, dir, "a.yaml", "- symbol: AAA\n  companyName: Alpha\n")
	writeFile(t, dir, "notes.txt", "ignored")

	got, err := YAMLSource{Path: dir}.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := []types.Symbol{{Ticker: "AAA", CompanyName: "Alpha"}, {Ticker: "BBB", CompanyName: "Beta"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v; want %v", got, want)
	}
}

func TestYAMLSource_Malformed(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "bad.yaml", "- symbol: AAA\n  companyName: Alpha\n- companyName: NoTicker\n")
	got, err := YAMLSource{Path: p}.Load(context.Background())
	if !errors.Is(err, types.ErrMalformedPayload) {
		t.Fatalf("err = %v; want ErrMalformedPayload", err)
	}
	if len(got) != 1 {
		t.Errorf("prefix len = %d; want 1", len(got))
	}
}

func TestYAMLSource_Missing(t *testing.T) {
	_, err := YAMLSource{Path: filepath.Join(t.TempDir(), "nope.yaml")}.Load(context.Background())
	if !errors.Is(err, types.ErrSymbolFile) || !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("err = %v; want ErrSymbolFile wrapping ErrNotExist", err)
	}
	if errors.Is(err, types.ErrTransport) {
		t.Errorf("missing file reported as transport failure: %v", err)
	}
}
