package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	AudioDir  string `toml:"audio_dir"`
	OutputDir string `toml:"output_dir"`
	WorkDir   string `toml:"work_dir"`
	LogDir    string `toml:"log_dir"`
	HistoryDB string `toml:"history_db"`
}

// Engine contains configuration for the faster-whisper transcription runtime.
type Engine struct {
	// Model is the preferred model name (e.g. "large-v3").
	Model string `toml:"model"`
	// FallbackModel is tried once when Model fails to load.
	FallbackModel string `toml:"fallback_model"`
	// Language is the pinned ISO 639-1 language code. No auto-detection.
	Language string `toml:"language"`
	// Device selects the compute device: "auto", "cuda", or "cpu".
	Device string `toml:"device"`
	// BeamSize is the beam width used for search-based decoding.
	BeamSize int `toml:"beam_size"`
	// Temperature pins decoding determinism. Zero disables sampling.
	Temperature float64 `toml:"temperature"`
	// NoSpeechThreshold suppresses segments the engine marks as non-speech.
	NoSpeechThreshold float64 `toml:"no_speech_threshold"`
	// CompressionRatioThreshold filters degenerate, repetitive output.
	CompressionRatioThreshold float64 `toml:"compression_ratio_threshold"`
	// VADMinSilenceMS is the minimum silence duration for the VAD filter.
	VADMinSilenceMS int `toml:"vad_min_silence_ms"`
	// MinAvgLogprob drops segments the engine scored below this confidence.
	MinAvgLogprob float64 `toml:"min_avg_logprob"`
	// Extensions lists recognized audio file extensions (without dots).
	Extensions []string `toml:"extensions"`
}

// Notifications contains configuration for ntfy push notifications.
type Notifications struct {
	NtfyTopic      string `toml:"ntfy_topic"`
	RequestTimeout int    `toml:"request_timeout"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for the transcriber.
//
// Configuration sections by subsystem:
//   - Paths: audio input, transcript output, scratch, and log directories
//   - Engine: faster-whisper model, device, and decode profile
//   - Notifications: ntfy push notification settings
//   - Logging: log format and level
type Config struct {
	Paths         Paths         `toml:"paths"`
	Engine        Engine        `toml:"engine"`
	Notifications Notifications `toml:"notifications"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/transcriber/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config
// has all path fields expanded and normalized. The boolean reports whether a
// config file was found; when none exists the defaults are returned.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("transcriber.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories a run needs before processing starts.
// The output directory is excluded here: the pipeline owns its destructive reset.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.WorkDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	if db := strings.TrimSpace(c.Paths.HistoryDB); db != "" {
		if err := os.MkdirAll(filepath.Dir(db), 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", filepath.Dir(db), err)
		}
	}
	return nil
}

// FFmpegBinary returns the external audio decoder executable name.
func (c *Config) FFmpegBinary() string {
	return "ffmpeg"
}

// FFprobeBinary returns the stream inspection executable name. It lives next
// to ffmpeg when the decoder was configured with an explicit path.
func (c *Config) FFprobeBinary() string {
	ffmpeg := c.FFmpegBinary()
	if dir := filepath.Dir(ffmpeg); dir != "." && dir != "" {
		return filepath.Join(dir, "ffprobe")
	}
	return "ffprobe"
}

// LauncherBinary returns the executable used to launch the faster-whisper helper.
func (c *Config) LauncherBinary() string {
	return "uvx"
}

// HistoryEnabled reports whether run history persistence is configured.
func (c *Config) HistoryEnabled() bool {
	return strings.TrimSpace(c.Paths.HistoryDB) != ""
}

// WriteSample writes the embedded sample configuration to the given path,
// refusing to overwrite an existing file.
func WriteSample(path string) error {
	expanded, err := expandPath(path)
	if err != nil {
		return err
	}
	if _, err := os.Stat(expanded); err == nil {
		return fmt.Errorf("config file already exists at %s", expanded)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(expanded), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(expanded, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// ExpandPath expands a leading tilde and resolves the result to an absolute
// path. Empty input stays empty.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}
