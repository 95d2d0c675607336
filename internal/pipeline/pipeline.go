package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"transcriber/internal/config"
	"transcriber/internal/discovery"
	"transcriber/internal/engine"
	"transcriber/internal/history"
	"transcriber/internal/logging"
	"transcriber/internal/notifications"
	"transcriber/internal/services"
	"transcriber/internal/subtitle"
	"transcriber/internal/textproc"
)

// previewLines is how many transcript lines are echoed after each file.
const previewLines = 3

// Engine is the transcription surface the driver needs. *engine.Service
// implements it; tests substitute a fake.
type Engine interface {
	Warmup(ctx context.Context) error
	Transcribe(ctx context.Context, path string) (engine.Result, error)
	Model() string
	Device() string
	ComputeType() string
}

// Runner walks one batch: discover, reset the output directory, transcribe
// each file in order, write both output documents, summarize. Files are
// processed sequentially; one failing file never stops the batch.
type Runner struct {
	cfg      *config.Config
	engine   Engine
	notifier notifications.Service
	store    *history.Store
	logger   *slog.Logger
	progress io.Writer
	now      func() time.Time
}

// New creates a batch runner. The store may be nil when history is disabled.
func New(cfg *config.Config, eng Engine, notifier notifications.Service, store *history.Store, logger *slog.Logger) *Runner {
	if notifier == nil {
		notifier = notifications.NewService(cfg)
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Runner{
		cfg:      cfg,
		engine:   eng,
		notifier: notifier,
		store:    store,
		logger:   logger,
		progress: io.Discard,
		now:      time.Now,
	}
}

// SetProgressWriter directs human-readable progress output (file listing,
// per-file counters, transcript previews) to w.
func (r *Runner) SetProgressWriter(w io.Writer) {
	if w != nil {
		r.progress = w
	}
}

// Run executes one batch and returns its summary. The returned error is nil
// when the run completed, even if individual files failed; callers decide the
// exit status from Summary.Failed.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	lock, err := r.acquireLock()
	if err != nil {
		return Summary{}, err
	}
	defer func() { _ = lock.Unlock() }()

	files, err := discovery.Discover(r.cfg.Paths.AudioDir, r.cfg.Engine.Extensions)
	if err != nil {
		return Summary{}, services.Wrap(services.ErrConfiguration, "pipeline", "discover", r.cfg.Paths.AudioDir, err)
	}
	if len(files) == 0 {
		r.logger.Warn("no audio files found", logging.String("directory", r.cfg.Paths.AudioDir))
		fmt.Fprintf(r.progress, "No audio files found in %s\n", r.cfg.Paths.AudioDir)
		return Summary{}, nil
	}

	fmt.Fprintf(r.progress, "Found %d audio file(s):\n", len(files))
	for _, f := range files {
		fmt.Fprintf(r.progress, "  %d. %s\n", f.Ordinal, f.Name)
	}

	if err := r.engine.Warmup(ctx); err != nil {
		_ = r.notifier.NotifyError(ctx, err, "model warmup")
		return Summary{}, err
	}

	if err := r.resetOutputDir(); err != nil {
		return Summary{}, err
	}

	started := r.now()
	summary := Summary{
		RunID:       uuid.NewString(),
		Model:       r.engine.Model(),
		Device:      r.engine.Device(),
		ComputeType: r.engine.ComputeType(),
		FilesTotal:  len(files),
	}
	r.logger.Info("run started",
		logging.String("run_id", summary.RunID),
		logging.Int("files", summary.FilesTotal),
		logging.String("model", summary.Model),
		logging.String("device", summary.Device))

	r.beginHistory(ctx, summary, started)
	if err := r.notifier.NotifyRunStarted(ctx, len(files)); err != nil {
		r.logger.Warn("start notification failed", logging.Error(err))
	}

	for _, file := range files {
		if ctx.Err() != nil {
			r.finishHistory(ctx, summary, started, runAborted)
			return summary, ctx.Err()
		}
		fmt.Fprintf(r.progress, "\n[%d/%d] %s\n", file.Ordinal, summary.FilesTotal, file.Name)

		seconds, err := r.processFile(ctx, file)
		if err != nil {
			summary.Failures = append(summary.Failures, FileFailure{
				Ordinal: file.Ordinal,
				Name:    file.Name,
				Message: err.Error(),
			})
			r.logger.Error("file failed",
				logging.String("run_id", summary.RunID),
				logging.String("file", file.Name),
				logging.Error(err))
			fmt.Fprintf(r.progress, "  failed: %v\n", err)
			r.recordFile(ctx, summary.RunID, file, history.FileStatusFailed, err.Error(), 0)
			continue
		}

		summary.Processed++
		summary.AudioSeconds += seconds
		fmt.Fprintf(r.progress, "  done (%s of audio)\n", subtitle.FormatHMS(seconds))
		r.recordFile(ctx, summary.RunID, file, history.FileStatusDone, "", seconds)
	}

	summary.Elapsed = r.now().Sub(started)
	r.finishHistory(ctx, summary, started, runFinished)

	if err := r.notifier.NotifyRunCompleted(ctx, summary.Processed, summary.Failed(), summary.AudioDuration(), summary.Elapsed); err != nil {
		r.logger.Warn("completion notification failed", logging.Error(err))
	}
	r.logger.Info("run finished",
		logging.String("run_id", summary.RunID),
		logging.Int("processed", summary.Processed),
		logging.Int("failed", summary.Failed()),
		logging.Float64("audio_seconds", summary.AudioSeconds),
		logging.Duration("elapsed", summary.Elapsed))
	return summary, nil
}

// processFile transcribes one file and writes its transcript and subtitle
// documents. Any error is scoped to this file.
func (r *Runner) processFile(ctx context.Context, file discovery.AudioFile) (float64, error) {
	result, err := r.engine.Transcribe(ctx, file.Path)
	if err != nil {
		return 0, err
	}

	lines := make([]string, 0, len(result.Segments))
	cues := make([]subtitle.Cue, 0, len(result.Segments))
	for _, seg := range result.Segments {
		cleaned := strings.TrimSpace(textproc.Clean(seg.Text))
		if cleaned == "" {
			continue
		}
		lines = append(lines, cleaned)
		cues = append(cues, subtitle.Cue{Start: seg.Start, End: seg.End, Text: cleaned})
	}
	prose := textproc.Clean(strings.Join(lines, "\n"))

	base := fmt.Sprintf("%d - %s", file.Ordinal, file.Name)
	txtPath := filepath.Join(r.cfg.Paths.OutputDir, base+".txt")
	if err := subtitle.WriteTranscript(txtPath, base, result.Duration, prose); err != nil {
		return 0, err
	}
	srtPath := filepath.Join(r.cfg.Paths.OutputDir, base+".srt")
	if err := subtitle.WriteSRT(srtPath, cues); err != nil {
		return 0, err
	}

	if result.Dropped > 0 {
		r.logger.Debug("low-confidence segments dropped",
			logging.String("file", file.Name),
			logging.Int("dropped", result.Dropped))
	}
	r.printPreview(prose)
	return result.Duration, nil
}

func (r *Runner) printPreview(prose string) {
	if strings.TrimSpace(prose) == "" {
		return
	}
	shown := strings.Split(prose, "\n")
	if len(shown) > previewLines {
		shown = shown[:previewLines]
	}
	for _, line := range shown {
		fmt.Fprintf(r.progress, "  | %s\n", line)
	}
}

// resetOutputDir removes any previous batch output and recreates the
// directory. This is destructive on purpose: outputs are derived data and a
// rerun must never mix stale documents with fresh ones.
func (r *Runner) resetOutputDir() error {
	dir := r.cfg.Paths.OutputDir
	if strings.TrimSpace(dir) == "" {
		return services.Wrap(services.ErrConfiguration, "pipeline", "reset output", "output directory is not configured", nil)
	}
	if err := os.RemoveAll(dir); err != nil {
		return services.Wrap(services.ErrTransient, "pipeline", "reset output", dir, err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return services.Wrap(services.ErrTransient, "pipeline", "reset output", dir, err)
	}
	return nil
}

// acquireLock takes a lock file beside the output directory so two runs
// cannot interleave the destructive reset.
func (r *Runner) acquireLock() (*flock.Flock, error) {
	path := strings.TrimRight(r.cfg.Paths.OutputDir, string(os.PathSeparator)) + ".lock"
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, services.Wrap(services.ErrTransient, "pipeline", "lock", path, err)
	}
	lock := flock.New(path)
	locked, err := lock.TryLock()
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "pipeline", "lock", path, err)
	}
	if !locked {
		return nil, services.Wrap(services.ErrConfiguration, "pipeline", "lock",
			fmt.Sprintf("another run holds %s", path), nil)
	}
	return lock, nil
}

const (
	runFinished = iota
	runAborted
)

func (r *Runner) beginHistory(ctx context.Context, summary Summary, started time.Time) {
	if r.store == nil {
		return
	}
	err := r.store.BeginRun(ctx, history.Run{
		ID:          summary.RunID,
		StartedAt:   started,
		Model:       summary.Model,
		Device:      summary.Device,
		ComputeType: summary.ComputeType,
		Language:    r.cfg.Engine.Language,
	})
	if err != nil {
		r.logger.Warn("history begin failed", logging.Error(err))
	}
}

func (r *Runner) recordFile(ctx context.Context, runID string, file discovery.AudioFile, status, message string, seconds float64) {
	if r.store == nil {
		return
	}
	err := r.store.RecordFile(ctx, runID, history.FileOutcome{
		Ordinal:      file.Ordinal,
		Name:         file.Name,
		Status:       status,
		Error:        message,
		AudioSeconds: seconds,
	})
	if err != nil {
		r.logger.Warn("history record failed", logging.String("file", file.Name), logging.Error(err))
	}
}

func (r *Runner) finishHistory(ctx context.Context, summary Summary, started time.Time, state int) {
	if r.store == nil {
		return
	}
	status := history.RunStatusCompleted
	if state == runAborted || summary.Failed() > 0 {
		status = history.RunStatusFailed
	}
	finished := r.now()
	err := r.store.FinishRun(ctx, history.Run{
		ID:             summary.RunID,
		FinishedAt:     finished,
		Status:         status,
		FilesTotal:     summary.FilesTotal,
		FilesFailed:    summary.Failed(),
		AudioSeconds:   summary.AudioSeconds,
		ElapsedSeconds: finished.Sub(started).Seconds(),
	})
	if err != nil {
		r.logger.Warn("history finish failed", logging.Error(err))
	}
}
