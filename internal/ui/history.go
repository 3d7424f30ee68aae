package ui

import (
	"github.com/charmbracelet/bubbles/table"

	"vidsnatch/internal/history"
	"vidsnatch/internal/util/format"
)

// RenderHistory renders history records, newest first as given.
func RenderHistory(recs []*history.Record) string {
	sty := defaultStyles()
	cols := []table.Column{
		{Title: "When", Width: 16},
		{Title: "State", Width: 11},
		{Title: "Title", Width: 30},
		{Title: "Option", Width: 32},
		{Title: "Size", Width: 10},
	}
	rows := make([]table.Row, len(recs))
	for i, r := range recs {
		size := format.HumanizeSize(r.BytesTotal)
		if r.BytesDownloaded > 0 {
			size = format.HumanizeBytes(r.BytesDownloaded)
		}
		rows[i] = table.Row{
			r.CreatedAt.Local().Format("2006-01-02 15:04"),
			string(r.State),
			truncate(r.Title, 30),
			truncate(r.Label, 32),
			size,
		}
	}

	ts := table.DefaultStyles()
	ts.Header = sty.Header
	ts.Selected = ts.Cell
	t := table.New(
		table.WithColumns(cols),
		table.WithRows(rows),
		table.WithHeight(len(rows)+3),
		table.WithStyles(ts),
	)
	return t.View() + "\n"
}
