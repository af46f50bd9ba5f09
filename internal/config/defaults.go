package config

const (
	defaultConfigPath      = "~/.config/checkinq/config.toml"
	defaultDataDir         = "~/.local/share/checkinq"
	defaultLogDir          = "~/.local/share/checkinq/logs"
	defaultDatabaseFile    = "state.db"
	defaultRecordKey       = "gameState"
	defaultBusyTimeoutMS   = 5000
	defaultBaseURL         = "http://localhost:8080/api/monopoly"
	defaultRequestTimeout  = 30
	defaultUserAgent       = "checkinq/0.1.0"
	defaultSuggestionCount = 3
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Storage: Storage{
			DatabaseFile:  defaultDatabaseFile,
			RecordKey:     defaultRecordKey,
			BusyTimeoutMS: defaultBusyTimeoutMS,
		},
		Remote: Remote{
			BaseURL:        defaultBaseURL,
			RequestTimeout: defaultRequestTimeout,
			UserAgent:      defaultUserAgent,
		},
		Places: Places{
			SuggestionCount: defaultSuggestionCount,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
