package pipeline

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"vidsnatch/internal/cancellation"
	"vidsnatch/internal/downloader"
	"vidsnatch/internal/progress"
	"vidsnatch/internal/util"
)

// execution is the mutable state of one Execute call. It is confined to the calling
// goroutine; fetch callbacks run synchronously on it.
type execution struct {
	id       string
	exec     *Executor
	plan     plan
	rep      progress.Reporter
	token    *cancellation.Controller
	log      *zap.Logger
	throttle *progress.Throttle

	state      progress.State
	fraction   float64
	completed  int64    // bytes of streams already fetched
	current    int64    // bytes of the stream in flight
	downloaded int64    // completed + current, never decreasing
	totals     []*int64 // per-stream best-known size
	done       bool
	output     string // published path, set once the result is moved into place

	// artifacts are files this execution created and must remove unless it finishes.
	artifacts map[string]struct{}
}

func (x *execution) run() Result {
	x.totals = make([]*int64, len(x.plan.fetch))
	for i, st := range x.plan.fetch {
		if st.stream.SizeBytes != nil {
			n := *st.stream.SizeBytes
			x.totals[i] = &n
		}
	}

	x.emit(progress.StatePending, 0, "Queued")
	if x.token.IsSignaled() {
		return x.cancel()
	}
	if err := util.EnsureDir(x.exec.outDir); err != nil {
		return x.fail(fetchError(fmt.Errorf("prepare output directory: %w", err)))
	}

	for i, st := range x.plan.fetch {
		if x.token.IsSignaled() {
			return x.cancel()
		}
		x.current = 0
		x.track(st.dest)
		x.throttle.Reset()
		x.emit(progress.StateDownloading, x.downloadFraction(i, 0), "Downloading "+st.kind)

		req := downloader.FetchRequest{
			FormatID:  st.stream.FormatID,
			URL:       st.stream.URL,
			SourceURL: st.stream.SourceURL,
			Dest:      st.dest,
		}
		err := x.exec.fetcher.Fetch(x.token.Context(), req, x.onProgress(i))
		if x.token.IsSignaled() {
			return x.cancel()
		}
		if err != nil {
			return x.fail(fetchError(fmt.Errorf("%s stream: %w", st.kind, err)))
		}
		x.completeStream(i, st.dest)
	}

	if x.token.IsSignaled() {
		return x.cancel()
	}

	if x.plan.encode != nil {
		req := *x.plan.encode
		x.track(req.Output)
		x.emit(x.plan.stage, stageFraction(x.plan.stage), stageMessage(x.plan.stage))

		err := x.exec.transcoder.Transcode(x.token.Context(), req)
		if x.token.IsSignaled() {
			return x.cancel()
		}
		if err != nil {
			return x.fail(transcodeError(err))
		}
	}

	if x.token.IsSignaled() {
		return x.cancel()
	}
	out, err := util.PublishFile(x.plan.result, x.plan.final)
	if err != nil {
		err = fmt.Errorf("publish output: %w", err)
		if x.plan.encode != nil {
			return x.fail(transcodeError(err))
		}
		return x.fail(fetchError(err))
	}
	x.untrack(x.plan.result)
	x.output = out
	return x.finish()
}

// onProgress adapts fetcher callbacks for stream i into throttled DOWNLOADING updates.
// It returns ErrCanceled once the token is signaled, which makes the fetcher abort.
func (x *execution) onProgress(i int) downloader.ProgressFunc {
	return func(p downloader.FetchProgress) error {
		if x.token.IsSignaled() {
			return ErrCanceled
		}
		if p.Total > 0 {
			total := p.Total
			x.totals[i] = &total
		}
		if p.Downloaded > x.current {
			x.current = p.Downloaded
		}
		x.advance(x.completed + x.current)

		if p.Status == "finished" || x.throttle.Allow() {
			x.emit(progress.StateDownloading, x.downloadFraction(i, x.current), "")
		}
		if x.token.IsSignaled() {
			return ErrCanceled
		}
		return nil
	}
}

// completeStream folds stream i into the completed byte count. The size on disk wins
// over reported bytes when it is larger; fetchers do not always report the final chunk.
func (x *execution) completeStream(i int, path string) {
	n := x.current
	if size := util.FileSize(path); size > n {
		n = size
	}
	if x.totals[i] == nil || *x.totals[i] < n {
		x.totals[i] = &n
	}
	x.completed += n
	x.current = 0
	x.advance(x.completed)
}

func (x *execution) advance(n int64) {
	if n > x.downloaded {
		x.downloaded = n
	}
}

// downloadFraction maps transfer progress of stream i into [0, DownloadCeiling],
// splitting the range evenly across the fetched streams.
func (x *execution) downloadFraction(i int, current int64) float64 {
	share := progress.DownloadCeiling / float64(len(x.plan.fetch))
	f := share * float64(i)
	if t := x.totals[i]; t != nil && *t > 0 {
		r := float64(current) / float64(*t)
		if r > 1 {
			r = 1
		}
		f += share * r
	}
	return f
}

// total is the sum of per-stream sizes, or nil while any of them is unknown.
func (x *execution) total() *int64 {
	var sum int64
	for _, t := range x.totals {
		if t == nil {
			return nil
		}
		sum += *t
	}
	return &sum
}

// emit reports one update. Nothing is reported after a terminal state, and the
// fraction never moves backwards.
func (x *execution) emit(state progress.State, fraction float64, msg string) {
	x.emitUpdate(progress.Update{State: state, Fraction: fraction, Message: msg})
}

func (x *execution) emitUpdate(u progress.Update) {
	if x.done {
		return
	}
	if u.Fraction < x.fraction {
		u.Fraction = x.fraction
	}
	if u.State != x.state {
		x.log.Debug("state", zap.String("from", string(x.state)), zap.String("to", string(u.State)))
	}
	x.state = u.State
	x.fraction = u.Fraction
	x.done = u.State.IsTerminal()

	u.JobID = x.id
	u.Downloaded = x.downloaded
	u.Total = x.total()
	x.rep.Update(u)
}

func (x *execution) track(path string) {
	x.artifacts[path] = struct{}{}
}

func (x *execution) untrack(path string) {
	delete(x.artifacts, path)
}

// cleanup removes every tracked file. The published output is never tracked.
func (x *execution) cleanup() {
	for path := range x.artifacts {
		if err := util.RemoveIfExists(path); err != nil {
			x.log.Warn("cleanup failed", zap.String("path", path), zap.Error(err))
		}
		delete(x.artifacts, path)
	}
}

func (x *execution) result(err error) Result {
	r := Result{
		ExecutionID:     x.id,
		State:           x.state,
		BytesDownloaded: x.downloaded,
		BytesTotal:      x.total(),
		Err:             err,
	}
	if x.state == progress.StateFinished {
		r.OutputPath = x.output
	}
	return r
}

func (x *execution) cancel() Result {
	x.cleanup()
	x.log.Info("download canceled")
	x.emitUpdate(progress.Update{
		State:    progress.StateCanceled,
		Fraction: x.fraction,
		Err:      ErrCanceled,
		Message:  "Canceled",
	})
	return x.result(ErrCanceled)
}

func (x *execution) fail(err error) Result {
	x.cleanup()
	x.log.Warn("download failed", zap.Error(err))
	x.emitUpdate(progress.Update{
		State:    progress.StateFailed,
		Fraction: x.fraction,
		Err:      err,
		Message:  failMessage(err),
	})
	return x.result(err)
}

func (x *execution) finish() Result {
	x.cleanup()
	x.log.Info("download finished", zap.String("output", x.output), zap.Int64("bytes", x.downloaded))
	x.emitUpdate(progress.Update{
		State:      progress.StateFinished,
		Fraction:   1,
		OutputPath: x.output,
		Message:    "Done",
	})
	return x.result(nil)
}

func stageMessage(s progress.State) string {
	if s == progress.StateMerging {
		return "Merging video and audio"
	}
	return "Converting"
}

func failMessage(err error) string {
	switch {
	case errors.Is(err, ErrTranscode):
		return "Post-processing failed"
	default:
		return "Download failed"
	}
}
