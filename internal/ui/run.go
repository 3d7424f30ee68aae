package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"vidsnatch/internal/progress"
)

// ReporterFor returns the reporter feeding the dashboard row of job i.
type ReporterFor func(i int) progress.Reporter

// Run shows the dashboard for jobs while work executes them. work receives the
// per-job reporters and runs on its own goroutine; Run returns once both the
// program and work have returned. q or ctrl+c calls cancelAll.
func Run(ctx context.Context, jobs []Job, work func(ReporterFor) error, cancelAll func()) error {
	m := newModel(jobs, cancelAll)
	stop := make(chan struct{})
	reporterFor := func(i int) progress.Reporter {
		return &teaReporter{index: i, ch: m.events, stop: stop}
	}

	done := make(chan error, 1)
	go func() {
		err := work(reporterFor)
		done <- err
		select {
		case m.events <- workDoneMsg{Err: err}:
		case <-stop:
		}
	}()

	prog := tea.NewProgram(m, tea.WithContext(ctx))
	_, runErr := prog.Run()
	close(stop)
	if runErr != nil {
		m.cancelAll()
	}

	workErr := <-done
	if workErr != nil {
		return workErr
	}
	return runErr
}
