package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeEngine()
	c.normalizeNotifications()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.AudioDir, err = expandPath(c.Paths.AudioDir); err != nil {
		return fmt.Errorf("paths.audio_dir: %w", err)
	}
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.WorkDir) == "" {
		c.Paths.WorkDir = defaultWorkDir
	}
	if c.Paths.WorkDir, err = expandPath(c.Paths.WorkDir); err != nil {
		return fmt.Errorf("paths.work_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if trimmed := strings.TrimSpace(c.Paths.HistoryDB); trimmed != "" {
		if c.Paths.HistoryDB, err = expandPath(trimmed); err != nil {
			return fmt.Errorf("paths.history_db: %w", err)
		}
	} else {
		c.Paths.HistoryDB = ""
	}
	return nil
}

func (c *Config) normalizeEngine() {
	c.Engine.Model = strings.TrimSpace(c.Engine.Model)
	if c.Engine.Model == "" {
		c.Engine.Model = defaultModel
	}
	c.Engine.FallbackModel = strings.TrimSpace(c.Engine.FallbackModel)
	c.Engine.Language = strings.ToLower(strings.TrimSpace(c.Engine.Language))
	if c.Engine.Language == "" {
		c.Engine.Language = defaultLanguage
	}
	c.Engine.Device = strings.ToLower(strings.TrimSpace(c.Engine.Device))
	if c.Engine.Device == "" {
		c.Engine.Device = defaultDevice
	}
	if c.Engine.BeamSize <= 0 {
		c.Engine.BeamSize = defaultBeamSize
	}
	if c.Engine.VADMinSilenceMS <= 0 {
		c.Engine.VADMinSilenceMS = defaultVADMinSilenceMS
	}
	if len(c.Engine.Extensions) == 0 {
		c.Engine.Extensions = defaultExtensions()
	}
	normalized := make([]string, 0, len(c.Engine.Extensions))
	for _, ext := range c.Engine.Extensions {
		ext = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(ext, ".")))
		if ext != "" {
			normalized = append(normalized, ext)
		}
	}
	c.Engine.Extensions = normalized
}

func (c *Config) normalizeNotifications() {
	if c.Notifications.NtfyTopic == "" {
		if value, ok := os.LookupEnv("TRANSCRIBER_NTFY_TOPIC"); ok {
			c.Notifications.NtfyTopic = value
		}
	}
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultNtfyRequestTimeout
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
