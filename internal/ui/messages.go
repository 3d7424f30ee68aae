package ui

import "vidsnatch/internal/progress"

// jobUpdateMsg carries one executor update for the job at Index.
type jobUpdateMsg struct {
	Index int
	U     progress.Update
}

// workDoneMsg is sent once every execution has returned.
type workDoneMsg struct {
	Err error
}
