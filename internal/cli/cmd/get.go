package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"vidsnatch/internal/cancellation"
	"vidsnatch/internal/logging"
	"vidsnatch/internal/model"
	"vidsnatch/internal/options"
	"vidsnatch/internal/pipeline"
	"vidsnatch/internal/progress"
	"vidsnatch/internal/ui"
	"vidsnatch/internal/util/format"
)

type getFlags struct {
	option    int
	audioOnly bool
	noConvert bool
	timeout   time.Duration
	noUI      bool
}

func newGetCmd(a *app) *cobra.Command {
	var f getFlags
	cmd := &cobra.Command{
		Use:   "get <url>",
		Short: "Download a video, or every entry of a playlist",
		Long: "get resolves the URL, builds the ranked option list of every media item and downloads " +
			"one option per item: the best one by default, the N-th with --option (as numbered by " +
			"'vidsnatch options'), or the best audio-only one with --audio-only.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runGet(cmd, args[0], f)
		},
	}
	fs := cmd.Flags()
	fs.IntVarP(&f.option, "option", "n", 0, "Option number to download (1-based, see 'options'); 0 picks the best")
	fs.BoolVarP(&f.audioOnly, "audio-only", "a", false, "Download the best audio-only option")
	fs.BoolVar(&f.noConvert, "no-convert", false, "Keep the native container instead of converting to mp4/mp3")
	fs.DurationVar(&f.timeout, "timeout", 0, "Cancel each download after this long (0 disables)")
	fs.BoolVar(&f.noUI, "no-ui", false, "Disable the dashboard; print plain progress lines")
	cmd.MarkFlagsMutuallyExclusive("option", "audio-only")
	return cmd
}

// task is one selected option of one media item.
type task struct {
	item model.MediaItem
	opt  model.DownloadOption
}

func (a *app) runGet(cmd *cobra.Command, raw string, f getFlags) error {
	ctx := cmd.Context()
	url, items, err := a.resolve(ctx, raw)
	if err != nil {
		return err
	}

	tasks, err := selectTasks(options.BuildAll(items), f, a.log)
	if err != nil {
		return err
	}

	needFFmpeg := false
	for _, t := range tasks {
		needFFmpeg = needFFmpeg || t.opt.Transcodes()
	}
	dlPath, ffmpegPath, err := a.tools(needFFmpeg)
	if err != nil {
		return err
	}

	recorder, closeHistory, err := a.openHistory()
	if err != nil {
		a.log.Warn("history disabled", zap.Error(err))
		recorder, closeHistory = nil, func() {}
	}
	defer closeHistory()

	useTUI := !f.noUI && term.IsTerminal(int(os.Stdout.Fd()))
	ex := a.executor(dlPath, ffmpegPath, useTUI && logging.SharesTerminal(a.logCfg))

	tokens := make([]*cancellation.Controller, len(tasks))
	for i := range tokens {
		tokens[i] = cancellation.New(ctx)
	}
	cancelAll := func() {
		for _, t := range tokens {
			t.Signal()
		}
	}

	results := make([]pipeline.Result, len(tasks))
	work := func(reporterFor func(int) progress.Reporter) error {
		g := new(errgroup.Group)
		g.SetLimit(a.cfg.Jobs)
		for i := range tasks {
			i := i
			g.Go(func() error {
				if f.timeout > 0 {
					stop := tokens[i].SignalAfter(f.timeout)
					defer stop()
				}
				rep := reporterFor(i)
				if recorder != nil {
					rep = progress.Multi(rep, recorder.Track(url, tasks[i].opt))
				}
				res, err := ex.Execute(tasks[i].opt, rep, tokens[i])
				if err != nil {
					return fmt.Errorf("%s: %w", tasks[i].opt.Label, err)
				}
				results[i] = res
				return nil
			})
		}
		return g.Wait()
	}

	if useTUI {
		jobs := make([]ui.Job, len(tasks))
		for i, t := range tasks {
			jobs[i] = ui.Job{Title: t.item.Title, Label: t.opt.Label}
		}
		err = ui.Run(ctx, jobs, func(rf ui.ReporterFor) error { return work(rf) }, cancelAll)
	} else {
		pr := &plainReporter{out: cmd.OutOrStdout(), total: len(tasks), labels: labels(tasks)}
		err = work(pr.forJob)
	}
	if err != nil {
		return &ExitError{Code: ExitCLIError, Err: err}
	}

	if !useTUI {
		printSummary(cmd.OutOrStdout(), results)
	}
	return exitFor(results)
}

// selectTasks picks one option per catalog according to f. Catalogs without usable
// streams are skipped with a warning; it is an error only when nothing is left.
func selectTasks(catalogs []options.Catalog, f getFlags, log *zap.Logger) ([]task, error) {
	var tasks []task
	for _, c := range catalogs {
		if c.Err != nil || len(c.Options) == 0 {
			log.Warn("skipping media item", zap.String("id", c.Item.ID), zap.String("title", c.Item.Title), zap.Error(c.Err))
			continue
		}
		idx := 0
		switch {
		case f.audioOnly:
			idx = options.FirstAudioOnly(c.Options)
			if idx < 0 {
				log.Warn("no audio-only option", zap.String("id", c.Item.ID))
				continue
			}
		case f.option > 0:
			if f.option > len(c.Options) {
				return nil, &ExitError{Code: ExitCLIError, Err: fmt.Errorf("option %d out of range: %q has %d options", f.option, c.Item.Title, len(c.Options))}
			}
			idx = f.option - 1
		case f.option < 0:
			return nil, &ExitError{Code: ExitCLIError, Err: fmt.Errorf("invalid --option %d", f.option)}
		}
		opt := c.Options[idx]
		if f.noConvert {
			opt.SetConvertToStandard(false)
		}
		tasks = append(tasks, task{item: c.Item, opt: opt})
	}
	if len(tasks) == 0 {
		return nil, &ExitError{Code: ExitDownloadError, Err: options.ErrNoUsableStreams}
	}
	return tasks, nil
}

// exitFor maps terminal results to the process exit status. Failures outrank cancellation.
func exitFor(results []pipeline.Result) error {
	var failed []string
	code := ExitOK
	canceled := 0
	for _, r := range results {
		switch r.State {
		case progress.StateFailed:
			c := ExitDownloadError
			if errors.Is(r.Err, pipeline.ErrTranscode) {
				c = ExitTranscodeError
			}
			if code == ExitOK {
				code = c
			}
			failed = append(failed, r.Err.Error())
		case progress.StateCanceled:
			canceled++
		}
	}
	if len(failed) > 0 {
		return &ExitError{Code: code, Err: fmt.Errorf("%d download(s) failed:\n- %s", len(failed), strings.Join(failed, "\n- "))}
	}
	if canceled > 0 {
		return &ExitError{Code: ExitCanceled, Err: fmt.Errorf("%d download(s) canceled", canceled)}
	}
	return nil
}

func labels(tasks []task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.opt.Label
	}
	return out
}

// plainReporter prints one line per state transition.
type plainReporter struct {
	mu     sync.Mutex
	out    io.Writer
	total  int
	labels []string
}

func (p *plainReporter) forJob(i int) progress.Reporter {
	var last progress.State
	return progress.ReporterFunc(func(u progress.Update) {
		if u.State == last {
			return
		}
		last = u.State
		p.mu.Lock()
		defer p.mu.Unlock()
		line := fmt.Sprintf("[%d/%d] %-11s %s", i+1, p.total, u.State, p.labels[i])
		switch u.State {
		case progress.StateFinished:
			line += " -> " + u.OutputPath
		case progress.StateFailed:
			if u.Err != nil {
				line += ": " + u.Err.Error()
			}
		}
		fmt.Fprintln(p.out, line)
	})
}

func printSummary(w io.Writer, results []pipeline.Result) {
	for _, r := range results {
		if r.State != progress.StateFinished {
			continue
		}
		fmt.Fprintf(w, "Saved: %s (%s)\n", filepath.Base(r.OutputPath), format.HumanizeBytes(r.BytesDownloaded))
	}
}
