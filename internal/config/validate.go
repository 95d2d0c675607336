package config

import (
	"errors"
	"fmt"

	"golang.org/x/text/language"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateEngine(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.AudioDir == "" {
		return errors.New("paths.audio_dir must be set")
	}
	if c.Paths.OutputDir == "" {
		return errors.New("paths.output_dir must be set")
	}
	if c.Paths.AudioDir == c.Paths.OutputDir {
		return errors.New("paths.output_dir must differ from paths.audio_dir: the output directory is deleted at the start of every run")
	}
	return nil
}

func (c *Config) validateEngine() error {
	switch c.Engine.Device {
	case "auto", "cuda", "cpu":
	default:
		return fmt.Errorf("engine.device must be auto, cuda, or cpu (got %q)", c.Engine.Device)
	}
	if _, err := language.Parse(c.Engine.Language); err != nil {
		return fmt.Errorf("engine.language %q is not a valid language code: %w", c.Engine.Language, err)
	}
	if c.Engine.Temperature < 0 {
		return errors.New("engine.temperature must not be negative")
	}
	if c.Engine.NoSpeechThreshold < 0 || c.Engine.NoSpeechThreshold > 1 {
		return errors.New("engine.no_speech_threshold must be between 0 and 1")
	}
	if c.Engine.CompressionRatioThreshold <= 0 {
		return errors.New("engine.compression_ratio_threshold must be positive")
	}
	if len(c.Engine.Extensions) == 0 {
		return errors.New("engine.extensions must list at least one audio extension")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json (got %q)", c.Logging.Format)
	}
	return nil
}
