package ui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vidsnatch/internal/history"
	"vidsnatch/internal/model"
	"vidsnatch/internal/options"
	"vidsnatch/internal/progress"
)

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	require.True(t, ok)
	return nm, cmd
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestModelAppliesUpdates(t *testing.T) {
	m := newModel([]Job{{Title: "Clip", Label: "Audio: 128kbps (m4a)"}}, nil)

	m, _ = update(t, m, jobUpdateMsg{Index: 0, U: progress.Update{
		JobID: "e1", State: progress.StateDownloading, Fraction: 0.4, Downloaded: 2048, Total: model.Bytes(4096),
	}})
	js := m.jobs[0]
	assert.Equal(t, progress.StateDownloading, js.state)
	assert.Equal(t, "e1", js.executionID)
	assert.InDelta(t, 0.4, js.fraction, 1e-9)
	assert.Contains(t, m.View(), "DOWNLOADING")
	assert.Contains(t, m.View(), "2.0 KB / 4.0 KB")

	m, _ = update(t, m, jobUpdateMsg{Index: 0, U: progress.Update{
		JobID: "e1", State: progress.StateFinished, Fraction: 1, OutputPath: "/out/Clip.mp3",
	}})
	assert.Contains(t, m.View(), "/out/Clip.mp3")

	// nothing changes after a terminal state
	m, _ = update(t, m, jobUpdateMsg{Index: 0, U: progress.Update{State: progress.StateFailed}})
	assert.Equal(t, progress.StateFinished, m.jobs[0].state)

	// out of range indexes are ignored
	_, _ = update(t, m, jobUpdateMsg{Index: 5, U: progress.Update{State: progress.StateFailed}})
}

func TestModelFailureShowsError(t *testing.T) {
	m := newModel([]Job{{Title: "Clip"}}, nil)
	m, _ = update(t, m, jobUpdateMsg{Index: 0, U: progress.Update{
		State: progress.StateFailed, Err: errors.New("fetch failed: 403"),
	}})
	assert.Contains(t, m.View(), "fetch failed: 403")
}

func TestModelCancelKeys(t *testing.T) {
	calls := 0
	m := newModel([]Job{{Title: "a"}, {Title: "b"}}, func() { calls++ })

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	assert.Equal(t, 1, calls)
	assert.True(t, m.canceling)
	assert.False(t, isQuit(cmd), "first press waits for executions to stop")
	assert.Contains(t, m.View(), "canceling")

	_, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	assert.Equal(t, 1, calls)
	assert.True(t, isQuit(cmd))
}

func TestModelQuitsWhenWorkDone(t *testing.T) {
	m := newModel([]Job{{Title: "a"}}, nil)
	m, cmd := update(t, m, workDoneMsg{})
	assert.True(t, m.finished)
	assert.True(t, isQuit(cmd))
}

func TestTeaReporterDelivery(t *testing.T) {
	ch := make(chan tea.Msg, 1)
	stop := make(chan struct{})
	r := &teaReporter{index: 2, ch: ch, stop: stop}

	r.Update(progress.Update{State: progress.StateDownloading, Fraction: 0.1})
	// channel full: a transfer update in the same state is dropped
	r.Update(progress.Update{State: progress.StateDownloading, Fraction: 0.2})

	msg := (<-ch).(jobUpdateMsg)
	assert.Equal(t, 2, msg.Index)
	assert.InDelta(t, 0.1, msg.U.Fraction, 1e-9)

	// a state transition waits for room
	ch <- jobUpdateMsg{}
	delivered := make(chan struct{})
	go func() {
		r.Update(progress.Update{State: progress.StateFinished, Fraction: 1})
		close(delivered)
	}()
	<-ch
	select {
	case <-delivered:
	case <-time.After(2 * time.Second):
		t.Fatal("transition was not delivered")
	}
	assert.Equal(t, progress.StateFinished, (<-ch).(jobUpdateMsg).U.State)

	// once the program is gone transitions no longer block
	ch <- jobUpdateMsg{}
	close(stop)
	r.Update(progress.Update{State: progress.StateCanceled})
}

func TestRenderOptions(t *testing.T) {
	out := RenderOptions([]options.Catalog{
		{
			Item: model.MediaItem{ID: "abc", Title: "First"},
			Options: []model.DownloadOption{
				{Label: "Video+Audio: 720p (mp4)", TargetContainer: "mp4", TotalSize: model.Bytes(2048)},
				{Label: "Audio: 128kbps (m4a)", TargetContainer: "mp3"},
			},
		},
		{Item: model.MediaItem{ID: "def", Title: "Second"}, Err: options.ErrNoUsableStreams},
	})

	assert.Contains(t, out, "First")
	assert.Contains(t, out, "Video+Audio: 720p (mp4)")
	assert.Contains(t, out, "Audio: 128kbps (m4a)")
	assert.Contains(t, out, "2.0 KB")
	assert.Contains(t, out, "unknown")
	assert.Contains(t, out, "Second")
	assert.True(t, strings.Contains(out, options.ErrNoUsableStreams.Error()))
}

func TestRenderHistory(t *testing.T) {
	out := RenderHistory([]*history.Record{
		{ID: "1", Title: "Clip", Label: "Audio: 128kbps (m4a)", State: progress.StateFinished, BytesDownloaded: 3072, CreatedAt: time.Now()},
		{ID: "2", Title: "Other", Label: "Video: 720p + Audio: 64kbps", State: progress.StateFailed, CreatedAt: time.Now()},
	})
	assert.Contains(t, out, "FINISHED")
	assert.Contains(t, out, "3.0 KB")
	assert.Contains(t, out, "FAILED")
	assert.Contains(t, out, "Other")
}
