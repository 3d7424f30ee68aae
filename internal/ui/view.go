package ui

import (
	"fmt"
	"strings"

	"vidsnatch/internal/progress"
	"vidsnatch/internal/util/format"
)

func (m Model) viewHeader() string {
	done := 0
	for _, js := range m.jobs {
		if js.done() {
			done++
		}
	}
	title := m.styles.Title.Render("vidsnatch")
	hint := "q: cancel"
	if m.canceling {
		hint = "canceling… q again to quit"
	}
	sub := m.styles.Subtitle.Render(fmt.Sprintf("Downloads: %d/%d done • %s", done, len(m.jobs), hint))
	return title + "\n" + sub
}

func (m Model) viewJobs() string {
	var b strings.Builder
	for _, js := range m.jobs {
		b.WriteString(m.viewJob(js))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) stateStyle(s progress.State) string {
	st := m.styles.JobInfo
	switch s {
	case progress.StatePending:
		st = m.styles.StagePending
	case progress.StateDownloading:
		st = m.styles.StageDL
	case progress.StateMerging, progress.StateConverting:
		st = m.styles.StageEnc
	case progress.StateFinished:
		st = m.styles.Success
	case progress.StateCanceled:
		st = m.styles.Warning
	case progress.StateFailed:
		st = m.styles.Error
	}
	return st.Render(string(s))
}

func (m Model) viewJob(js *jobState) string {
	left := m.styles.JobTitle.Render(truncate(js.Title, 40) + "  " + js.Label)
	line1 := left + "  " + m.stateStyle(js.state)

	var line2 string
	switch js.state {
	case progress.StatePending:
		line2 = m.styles.Spinner.Render(js.spinner.View()) + " " + m.styles.Faint.Render("waiting")
	case progress.StateCanceled:
		line2 = m.styles.Warning.Render("canceled")
	case progress.StateFailed:
		line2 = m.styles.Error.Render("✗ failed")
	default:
		line2 = js.bar.ViewAs(js.fraction) + " " + format.Percent(js.fraction)
		if js.downloaded > 0 {
			line2 += "  " + format.HumanizeBytes(js.downloaded) + " / " + format.HumanizeSize(js.total)
		}
	}

	line3 := m.styles.JobInfo.Render(js.status)
	return m.styles.Box.Render(line1 + "\n" + line2 + "\n" + line3)
}

func (m Model) viewSummary() string {
	var b strings.Builder
	for _, js := range m.jobs {
		if js.state == progress.StateFinished && js.outputPath != "" {
			if b.Len() == 0 {
				b.WriteString(m.styles.Subtitle.Render("✓ Saved:"))
				b.WriteString("\n")
			}
			b.WriteString(m.styles.Success.Render("  • " + js.outputPath))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func truncate(s string, n int) string {
	rs := []rune(s)
	if n <= 0 || len(rs) <= n {
		return s
	}
	return string(rs[:n-1]) + "…"
}
