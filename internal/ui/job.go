package ui

import (
	bubblesprogress "github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"

	"vidsnatch/internal/progress"
)

// Job is one download shown on the dashboard.
type Job struct {
	Title string
	Label string
}

type jobState struct {
	Job
	executionID string
	state       progress.State
	fraction    float64
	downloaded  int64
	total       *int64
	status      string
	outputPath  string
	err         error

	spinner spinner.Model
	bar     bubblesprogress.Model
}

func newJobState(j Job, styles Styles) *jobState {
	sp := spinner.New()
	sp.Style = styles.Spinner
	return &jobState{
		Job:     j,
		state:   progress.StatePending,
		status:  "Waiting",
		spinner: sp,
		bar: bubblesprogress.New(
			bubblesprogress.WithDefaultGradient(),
			bubblesprogress.WithWidth(40),
		),
	}
}

func (js *jobState) apply(u progress.Update) {
	if js.state.IsTerminal() {
		return
	}
	js.executionID = u.JobID
	js.state = u.State
	js.fraction = u.Fraction
	js.downloaded = u.Downloaded
	js.total = u.Total
	if u.Message != "" {
		js.status = u.Message
	}
	switch u.State {
	case progress.StateFinished:
		js.outputPath = u.OutputPath
	case progress.StateFailed:
		js.err = u.Err
		if u.Err != nil {
			js.status = u.Err.Error()
		}
	}
}

func (js *jobState) done() bool {
	return js.state.IsTerminal()
}
