package render

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/komsit37/gainers/pkg/gainers/columns"
	"github.com/komsit37/gainers/pkg/gainers/types"
)

type TableRenderer struct{}

func NewTableRenderer() *TableRenderer { return &TableRenderer{} }

func (r *TableRenderer) Render(w io.Writer, snap Snapshot, opts RenderOptions) error {
	fallback := columns.Sets["quote"]
	if opts.List {
		fallback = columns.Sets["list"]
	}
	cols, err := columns.Compute(opts.Columns, fallback)
	if err != nil {
		return err
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleColoredDark)
	if !opts.Color {
		tw.SetStyle(table.StyleLight)
	}
	tw.Style().Options.DrawBorder = false
	tw.Style().Options.SeparateRows = false
	tw.Style().Options.SeparateColumns = false

	hdr := make(table.Row, len(cols))
	for i, c := range cols {
		hdr[i] = columns.Header(c)
	}
	tw.AppendHeader(hdr)

	maxWidth := opts.MaxColWidth
	if maxWidth <= 0 {
		maxWidth = 40
	}
	cfgs := make([]table.ColumnConfig, 0, len(cols))
	for i, c := range cols {
		cfg := table.ColumnConfig{Number: i + 1, WidthMax: maxWidth}
		switch c {
		case "price", "change", "#":
			cfg.Align = text.AlignRight
			cfg.AlignHeader = text.AlignRight
		}
		cfgs = append(cfgs, cfg)
	}
	tw.SetColumnConfigs(cfgs)

	if opts.List {
		for i, s := range snap.Symbols {
			row := columns.Row{Index: i, Selected: i == int(snap.Selection), Symbol: s}
			tw.AppendRow(rowFor(cols, row, opts.Color))
		}
	} else {
		tw.AppendRow(rowFor(cols, columns.Row{State: snap.State}, opts.Color))
	}
	tw.Render()

	if a := snap.State.Alert; a != nil && !opts.List {
		msg := fmt.Sprintf("%s: %s [%s]", a.Title, a.Message, a.Action)
		if opts.Color {
			msg = text.Colors{text.Bold, text.FgRed}.Sprint(msg)
		}
		if _, err := fmt.Fprintln(w, msg); err != nil {
			return err
		}
	}
	return nil
}

func rowFor(cols []string, r columns.Row, color bool) table.Row {
	row := make(table.Row, len(cols))
	for i, c := range cols {
		v := columns.Value(c, r)
		if color && (c == "price" || c == "change") {
			v = colorize(r.State.Color, v)
		}
		row[i] = v
	}
	return row
}

func colorize(tag types.ColorTag, v string) string {
	switch tag {
	case types.Positive:
		return text.Colors{text.FgGreen}.Sprint(v)
	case types.Negative:
		return text.Colors{text.FgRed}.Sprint(v)
	default:
		return v
	}
}
