package ui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"

	"vidsnatch/internal/options"
	"vidsnatch/internal/util/format"
)

// RenderOptions renders each catalog as a numbered option table. Numbers are
// 1-based indexes into the catalog's option list.
func RenderOptions(catalogs []options.Catalog) string {
	sty := defaultStyles()
	var b strings.Builder
	for i, c := range catalogs {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(sty.Title.Render(c.Item.Title))
		b.WriteString(sty.Faint.Render("  [" + c.Item.ID + "]"))
		b.WriteString("\n")
		if c.Err != nil {
			b.WriteString(sty.Error.Render("  " + c.Err.Error()))
			b.WriteString("\n")
			continue
		}
		b.WriteString(optionTable(c, sty))
		b.WriteString("\n")
	}
	return b.String()
}

func optionTable(c options.Catalog, sty Styles) string {
	cols := []table.Column{
		{Title: "#", Width: 4},
		{Title: "Option", Width: 44},
		{Title: "Size", Width: 10},
		{Title: "Output", Width: 6},
	}
	rows := make([]table.Row, len(c.Options))
	for i, o := range c.Options {
		rows[i] = table.Row{
			strconv.Itoa(i + 1),
			o.Label,
			format.HumanizeSize(o.TotalSize),
			o.TargetContainer,
		}
	}

	ts := table.DefaultStyles()
	ts.Header = sty.Header
	// listing only; no row is highlighted
	ts.Selected = ts.Cell
	t := table.New(
		table.WithColumns(cols),
		table.WithRows(rows),
		table.WithHeight(len(rows)+3),
		table.WithStyles(ts),
	)
	return t.View()
}
