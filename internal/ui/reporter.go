package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"vidsnatch/internal/progress"
)

// teaReporter forwards executor updates onto the program's event loop. Transfer
// updates are dropped when the loop is behind; state transitions always get through
// unless the program has already exited.
type teaReporter struct {
	index int
	last  progress.State
	ch    chan<- tea.Msg
	stop  <-chan struct{}
}

func (r *teaReporter) Update(u progress.Update) {
	msg := jobUpdateMsg{Index: r.index, U: u}
	if u.State != r.last {
		r.last = u.State
		select {
		case r.ch <- msg:
		case <-r.stop:
		}
		return
	}
	select {
	case r.ch <- msg:
	default:
	}
}
