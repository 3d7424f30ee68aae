// Package pipeline executes a selected download option: fetch its streams, merge or
// convert them when needed, and finalize the output file while reporting progress.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"vidsnatch/internal/cancellation"
	"vidsnatch/internal/downloader"
	"vidsnatch/internal/encoder"
	"vidsnatch/internal/model"
	"vidsnatch/internal/progress"
)

var (
	// ErrFetch wraps stream transfer failures.
	ErrFetch = errors.New("fetch failed")
	// ErrTranscode wraps merge and convert failures.
	ErrTranscode = errors.New("transcode failed")
	// ErrCanceled is the error of a canceled execution. It is a requested outcome, not a fault.
	ErrCanceled = errors.New("canceled")
)

// Fetcher transfers one stream to a local path.
type Fetcher = downloader.Fetcher

// Transcoder merges or converts local files.
type Transcoder interface {
	Transcode(ctx context.Context, req encoder.Request) error
}

// Executor runs download executions. It holds no per-execution state, so one Executor
// may run any number of executions concurrently.
type Executor struct {
	fetcher    Fetcher
	transcoder Transcoder
	outDir     string
	interval   time.Duration
	logger     *zap.Logger
	newID      func() string
}

// Option configures an Executor.
type Option func(*Executor)

// WithFetcher sets the stream fetcher backend.
func WithFetcher(f Fetcher) Option {
	return func(e *Executor) {
		e.fetcher = f
	}
}

// WithTranscoder sets the merge/convert backend.
func WithTranscoder(t Transcoder) Option {
	return func(e *Executor) {
		e.transcoder = t
	}
}

// WithOutputDir sets the directory final files and intermediates are written to.
func WithOutputDir(dir string) Option {
	return func(e *Executor) {
		e.outDir = dir
	}
}

// WithProgressInterval sets the minimum delay between transfer updates.
// State transitions are never throttled. Zero disables throttling.
func WithProgressInterval(d time.Duration) Option {
	return func(e *Executor) {
		e.interval = d
	}
}

// WithLogger attaches a logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Executor) {
		e.logger = l
	}
}

// WithIDGenerator overrides how execution IDs are generated.
func WithIDGenerator(fn func() string) Option {
	return func(e *Executor) {
		e.newID = fn
	}
}

// DefaultProgressInterval is the transfer update cadence when none is configured.
const DefaultProgressInterval = 200 * time.Millisecond

// NewExecutor constructs an Executor with the provided options.
func NewExecutor(opts ...Option) *Executor {
	e := &Executor{
		outDir:   ".",
		interval: DefaultProgressInterval,
	}
	for _, o := range opts {
		o(e)
	}
	if e.logger == nil {
		e.logger = zap.NewNop()
	}
	if e.newID == nil {
		e.newID = uuid.NewString
	}
	if e.outDir == "" {
		e.outDir = "."
	}
	return e
}

// Result is the terminal outcome of one execution.
type Result struct {
	ExecutionID     string
	State           progress.State
	OutputPath      string // set when State is FINISHED
	BytesDownloaded int64
	BytesTotal      *int64
	Err             error // wraps ErrFetch, ErrTranscode or ErrCanceled; nil when FINISHED
}

// Execute runs opt to a terminal state, reporting every transition to rep and polling
// token before and after every stage and from the transfer callback.
//
// Expected failures are reported through the Result and the final update. A non-nil
// error is returned only for programmer errors, such as an option without streams or
// a missing backend; nothing is emitted in that case.
func (e *Executor) Execute(opt model.DownloadOption, rep progress.Reporter, token *cancellation.Controller) (Result, error) {
	if err := opt.Validate(); err != nil {
		return Result{}, err
	}
	if e.fetcher == nil {
		return Result{}, errors.New("pipeline: no fetcher configured")
	}
	if opt.Transcodes() && e.transcoder == nil {
		return Result{}, errors.New("pipeline: no transcoder configured")
	}
	if rep == nil {
		rep = progress.Nop
	}
	if token == nil {
		token = cancellation.New(context.Background())
	}

	id := e.newID()
	x := &execution{
		id:        id,
		exec:      e,
		plan:      e.planFor(opt, id),
		rep:       rep,
		token:     token,
		log:       e.logger.With(zap.String("execution", id), zap.String("option", opt.Label)),
		throttle:  progress.NewThrottle(e.interval),
		artifacts: make(map[string]struct{}),
	}
	return x.run(), nil
}

// fetchError wraps a fetch failure.
func fetchError(err error) error {
	return fmt.Errorf("%w: %w", ErrFetch, err)
}

// transcodeError wraps a transcode failure.
func transcodeError(err error) error {
	return fmt.Errorf("%w: %w", ErrTranscode, err)
}
