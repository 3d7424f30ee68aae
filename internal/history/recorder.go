package history

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"vidsnatch/internal/model"
	"vidsnatch/internal/progress"
)

// Recorder turns execution updates into history records.
type Recorder struct {
	repo   Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewRecorder returns a Recorder writing to repo. Storage errors are logged, never
// surfaced to the execution.
func NewRecorder(repo Repository, logger *zap.Logger) *Recorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recorder{repo: repo, logger: logger, now: time.Now}
}

// Track returns a reporter for one execution of opt. The record is created on the
// first update and written again on every state change.
func (r *Recorder) Track(sourceURL string, opt model.DownloadOption) progress.Reporter {
	return &trackingReporter{rec: r, source: sourceURL, opt: opt}
}

type trackingReporter struct {
	rec    *Recorder
	source string
	opt    model.DownloadOption

	mu     sync.Mutex
	record *Record
}

func (t *trackingReporter) Update(u progress.Update) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.record == nil {
		t.record = &Record{
			ID:        u.JobID,
			SourceURL: t.source,
			MediaID:   t.opt.MediaID,
			Title:     t.opt.Title,
			Label:     t.opt.Label,
			State:     u.State,
		}
		if err := t.rec.repo.Create(t.record); err != nil {
			t.rec.logger.Warn("history create failed", zap.String("execution", u.JobID), zap.Error(err))
		}
		if !u.State.IsTerminal() {
			return
		}
	} else if u.State == t.record.State {
		return
	}

	t.record.State = u.State
	t.record.BytesDownloaded = u.Downloaded
	t.record.BytesTotal = u.Total
	if u.State.IsTerminal() {
		now := t.rec.now()
		t.record.FinishedAt = &now
		t.record.OutputPath = u.OutputPath
		if u.Err != nil {
			t.record.ErrorMessage = u.Err.Error()
		}
	}
	if err := t.rec.repo.Update(t.record); err != nil {
		t.rec.logger.Warn("history update failed", zap.String("execution", u.JobID), zap.Error(err))
	}
}
