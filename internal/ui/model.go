package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Model is the download dashboard.
type Model struct {
	jobs      []*jobState
	events    chan tea.Msg
	cancelAll func()
	canceling bool
	finished  bool
	workErr   error

	width  int
	styles Styles
}

func newModel(jobs []Job, cancelAll func()) Model {
	sty := defaultStyles()
	states := make([]*jobState, len(jobs))
	for i, j := range jobs {
		states[i] = newJobState(j, sty)
	}
	if cancelAll == nil {
		cancelAll = func() {}
	}
	return Model{
		jobs:      states,
		events:    make(chan tea.Msg, 256),
		cancelAll: cancelAll,
		styles:    sty,
	}
}

func (m Model) Init() tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(m.jobs)+1)
	for _, js := range m.jobs {
		cmds = append(cmds, js.spinner.Tick)
	}
	cmds = append(cmds, m.listenEventsCmd())
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			if m.canceling {
				// second press: stop waiting for executions to clean up
				return m, tea.Quit
			}
			m.canceling = true
			m.cancelAll()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width

	case jobUpdateMsg:
		if msg.Index >= 0 && msg.Index < len(m.jobs) {
			m.jobs[msg.Index].apply(msg.U)
		}
		return m, m.listenEventsCmd()

	case workDoneMsg:
		m.finished = true
		m.workErr = msg.Err
		return m, tea.Quit
	}

	var cmds []tea.Cmd
	for _, js := range m.jobs {
		var c tea.Cmd
		js.spinner, c = js.spinner.Update(msg)
		if c != nil {
			cmds = append(cmds, c)
		}
	}
	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	out := m.viewHeader() + "\n\n" + m.viewJobs()
	if summary := m.viewSummary(); summary != "" {
		out += "\n" + summary
	}
	return out
}

func (m Model) listenEventsCmd() tea.Cmd {
	return func() tea.Msg {
		return <-m.events
	}
}
