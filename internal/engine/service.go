package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"transcriber/internal/config"
	"transcriber/internal/logging"
	"transcriber/internal/media/ffprobe"
	"transcriber/internal/services"
)

// Segment is one transcribed span of audio.
type Segment struct {
	Start      float64
	End        float64
	Text       string
	AvgLogprob float64
}

// Result is the outcome of transcribing one file.
type Result struct {
	// Duration is the audio duration in seconds, as reported by ffprobe.
	Duration float64
	// Segments are the confidence-filtered transcript segments, in the
	// non-decreasing start order the engine produced them.
	Segments []Segment
	// Model is the model actually used: the preferred one or the fallback.
	Model string
	// Dropped counts segments discarded by the confidence filter.
	Dropped int
}

// Runner executes an external command and returns its combined output.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

func defaultRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput() //nolint:gosec
}

// Service drives the faster-whisper runtime through its command-line helper.
// Device and model selection happen once, in Warmup; Transcribe then runs the
// fixed decode profile per file.
type Service struct {
	cfg      config.Engine
	launcher string
	ffmpeg   string
	workDir  string
	logger   *slog.Logger
	run      Runner

	device      string
	computeType string
	model       string
	warmedUp    bool
}

// NewService creates an engine service. The logger may not be nil.
func NewService(cfg config.Engine, launcher, ffmpeg, workDir string, logger *slog.Logger) *Service {
	if launcher == "" {
		launcher = "uvx"
	}
	if ffmpeg == "" {
		ffmpeg = "ffmpeg"
	}
	return &Service{
		cfg:      cfg,
		launcher: launcher,
		ffmpeg:   ffmpeg,
		workDir:  workDir,
		logger:   logger,
		run:      defaultRunner,
	}
}

// WithRunner sets a custom command runner (for testing).
func (s *Service) WithRunner(run Runner) {
	if run != nil {
		s.run = run
	}
}

// Model returns the model in use after Warmup, or the configured preference.
func (s *Service) Model() string {
	if s.model != "" {
		return s.model
	}
	return s.cfg.Model
}

// Device returns the selected compute device after Warmup.
func (s *Service) Device() string {
	return s.device
}

// ComputeType returns the precision mode paired with the selected device.
func (s *Service) ComputeType() string {
	return s.computeType
}

// Warmup selects the compute device and loads the model by transcribing a
// short generated silence clip. The preferred model is tried first; on any
// load failure the fallback model is tried once. Two failures are a fatal
// configuration error: the model is shared by the whole batch.
func (s *Service) Warmup(ctx context.Context) error {
	if s.warmedUp {
		return nil
	}
	s.selectDevice(ctx)

	probe, err := s.writeSilenceClip(ctx)
	if err != nil {
		return services.Wrap(services.ErrConfiguration, "engine", "warmup", "generate probe clip", err)
	}
	defer os.Remove(probe)

	primary := s.cfg.Model
	if _, err := s.invoke(ctx, probe, primary); err == nil {
		s.model = primary
		s.warmedUp = true
		return nil
	} else if s.cfg.FallbackModel == "" || s.cfg.FallbackModel == primary {
		return services.Wrap(services.ErrConfiguration, "engine", "load model",
			fmt.Sprintf("model %q failed and no fallback is configured", primary), err)
	} else {
		s.logger.Warn("preferred model failed to load, trying fallback",
			logging.String("model", primary),
			logging.String("fallback", s.cfg.FallbackModel),
			logging.Error(err))
	}

	if _, err := s.invoke(ctx, probe, s.cfg.FallbackModel); err != nil {
		return services.Wrap(services.ErrConfiguration, "engine", "load model",
			fmt.Sprintf("both %q and fallback %q failed", primary, s.cfg.FallbackModel), err)
	}
	s.model = s.cfg.FallbackModel
	s.warmedUp = true
	return nil
}

// Transcribe runs the engine against one audio file and returns the filtered
// segments with the exact audio duration. Scratch output is removed on every
// exit path so a long batch does not accumulate state.
func (s *Service) Transcribe(ctx context.Context, path string) (Result, error) {
	if !s.warmedUp {
		if err := s.Warmup(ctx); err != nil {
			return Result{}, err
		}
	}

	info, err := ffprobe.Inspect(ctx, s.ffprobeBinary(), path, ffprobe.Runner(s.run))
	if err != nil {
		return Result{}, services.Wrap(services.ErrExternalTool, "engine", "probe", path, err)
	}
	if info.AudioStreamCount() == 0 {
		return Result{}, services.Wrap(services.ErrExternalTool, "engine", "probe",
			fmt.Sprintf("%s has no audio stream", path), nil)
	}

	segments, err := s.invoke(ctx, path, s.model)
	if err != nil {
		return Result{}, services.Wrap(services.ErrExternalTool, "engine", "transcribe", path, err)
	}

	result := Result{
		Duration: info.DurationSeconds(),
		Model:    s.model,
	}
	for _, seg := range segments {
		if seg.AvgLogprob < s.cfg.MinAvgLogprob {
			result.Dropped++
			continue
		}
		seg.Text = strings.TrimSpace(seg.Text)
		if seg.Text == "" {
			continue
		}
		result.Segments = append(result.Segments, seg)
	}
	return result, nil
}

func (s *Service) selectDevice(ctx context.Context) {
	switch s.cfg.Device {
	case CUDADevice:
		s.device = CUDADevice
	case CPUDevice:
		s.device = CPUDevice
	default:
		s.device = CPUDevice
		if _, err := s.run(ctx, ProbeTool, "-L"); err == nil {
			s.device = CUDADevice
		}
	}
	if s.device == CUDADevice {
		s.computeType = CUDAComputeType
	} else {
		s.computeType = CPUComputeType
	}
	s.logger.Info("compute device selected",
		logging.String("device", s.device),
		logging.String("compute_type", s.computeType))
}

// invoke runs one helper invocation against path with the given model and
// parses the JSON document the helper writes next to its scratch directory.
// The scratch directory is removed before returning.
func (s *Service) invoke(ctx context.Context, path, model string) ([]Segment, error) {
	scratch := filepath.Join(s.workDir, uuid.NewString())
	if err := os.MkdirAll(scratch, 0o755); err != nil {
		return nil, fmt.Errorf("create scratch dir: %w", err)
	}
	defer os.RemoveAll(scratch)

	args := s.buildArgs(path, model, scratch)
	output, err := s.run(ctx, s.launcher, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %s", HelperTool, err, strings.TrimSpace(string(output)))
	}

	jsonPath := filepath.Join(scratch, stem(path)+".json")
	segments, err := loadSegments(jsonPath)
	if err != nil {
		return nil, err
	}
	return segments, nil
}

func (s *Service) buildArgs(path, model, outputDir string) []string {
	args := []string{
		HelperTool,
		"--model", model,
		"--device", s.device,
		"--compute_type", s.computeType,
		"--language", s.cfg.Language,
		"--task", "transcribe",
		"--vad_filter", "True",
		"--vad_min_silence_duration_ms", strconv.Itoa(s.cfg.VADMinSilenceMS),
		"--condition_on_previous_text", "False",
		"--temperature", strconv.FormatFloat(s.cfg.Temperature, 'f', -1, 64),
		"--no_speech_threshold", strconv.FormatFloat(s.cfg.NoSpeechThreshold, 'f', -1, 64),
		"--compression_ratio_threshold", strconv.FormatFloat(s.cfg.CompressionRatioThreshold, 'f', -1, 64),
		"--beam_size", strconv.Itoa(s.cfg.BeamSize),
		"--output_format", OutputFormat,
		"--output_dir", outputDir,
		path,
	}
	return args
}

func (s *Service) ffprobeBinary() string {
	// ffprobe ships alongside ffmpeg; resolve it from the same directory when
	// a full path was configured.
	dir := filepath.Dir(s.ffmpeg)
	if dir == "." {
		return "ffprobe"
	}
	return filepath.Join(dir, "ffprobe")
}

// writeSilenceClip generates a half-second mono clip used to force a model
// load without touching any user file.
func (s *Service) writeSilenceClip(ctx context.Context) (string, error) {
	if err := os.MkdirAll(s.workDir, 0o755); err != nil {
		return "", fmt.Errorf("create work dir: %w", err)
	}
	clip := filepath.Join(s.workDir, "warmup.wav")
	args := []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-f", "lavfi",
		"-i", "anullsrc=r=16000:cl=mono",
		"-t", "0.5",
		clip,
	}
	if output, err := s.run(ctx, s.ffmpeg, args...); err != nil {
		return "", fmt.Errorf("ffmpeg silence clip: %w: %s", err, strings.TrimSpace(string(output)))
	}
	return clip, nil
}

type helperSegment struct {
	Start      float64 `json:"start"`
	End        float64 `json:"end"`
	Text       string  `json:"text"`
	AvgLogprob float64 `json:"avg_logprob"`
}

type helperPayload struct {
	Text     string          `json:"text"`
	Language string          `json:"language"`
	Segments []helperSegment `json:"segments"`
}

func loadSegments(jsonPath string) ([]Segment, error) {
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("read engine output: %w", err)
	}
	var payload helperPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("parse engine json: %w", err)
	}
	segments := make([]Segment, 0, len(payload.Segments))
	for _, seg := range payload.Segments {
		segments = append(segments, Segment{
			Start:      seg.Start,
			End:        seg.End,
			Text:       seg.Text,
			AvgLogprob: seg.AvgLogprob,
		})
	}
	return segments, nil
}

func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
