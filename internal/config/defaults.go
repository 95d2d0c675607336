package config

const (
	defaultAudioDir                  = "~/audios"
	defaultOutputDir                 = "~/transcripciones"
	defaultWorkDir                   = "~/.local/share/transcriber/work"
	defaultLogDir                    = "~/.local/share/transcriber/logs"
	defaultHistoryDB                 = "~/.local/share/transcriber/history.db"
	defaultModel                     = "large-v3"
	defaultFallbackModel             = "large-v2"
	defaultLanguage                  = "es"
	defaultDevice                    = "auto"
	defaultBeamSize                  = 5
	defaultNoSpeechThreshold         = 0.6
	defaultCompressionRatioThreshold = 2.4
	defaultVADMinSilenceMS           = 500
	defaultMinAvgLogprob             = -1.0
	defaultNtfyRequestTimeout        = 10
	defaultLogFormat                 = "console"
	defaultLogLevel                  = "info"
)

func defaultExtensions() []string {
	return []string{"mp3", "wav", "m4a", "opus", "ogg"}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			AudioDir:  defaultAudioDir,
			OutputDir: defaultOutputDir,
			WorkDir:   defaultWorkDir,
			LogDir:    defaultLogDir,
			HistoryDB: defaultHistoryDB,
		},
		Engine: Engine{
			Model:                     defaultModel,
			FallbackModel:             defaultFallbackModel,
			Language:                  defaultLanguage,
			Device:                    defaultDevice,
			BeamSize:                  defaultBeamSize,
			Temperature:               0.0,
			NoSpeechThreshold:         defaultNoSpeechThreshold,
			CompressionRatioThreshold: defaultCompressionRatioThreshold,
			VADMinSilenceMS:           defaultVADMinSilenceMS,
			MinAvgLogprob:             defaultMinAvgLogprob,
			Extensions:                defaultExtensions(),
		},
		Notifications: Notifications{
			RequestTimeout: defaultNtfyRequestTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
