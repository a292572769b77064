package config

import "fmt"

type Config struct {
	Server  ServerConfig
	LLM     LLMConfig
	Storage StorageConfig
	Limits  LimitsConfig
	History HistoryConfig
	Log     LogConfig
}

type ServerConfig struct {
	Port     int
	APIToken string
}

type LLMConfig struct {
	BaseURL string
	Model   string
	APIKey  string
}

type StorageConfig struct {
	DataDir string
}

// LimitsConfig bounds accepted field values. The caps are policy, not
// law, so they are configurable.
type LimitsConfig struct {
	MaxIncome float64
	MaxGoal   float64
	MinAge    int
	MaxAge    int
}

type HistoryConfig struct {
	MaxMessages int
	KeepLast    int
}

type LogConfig struct {
	Level string
}

func defaults() Config {
	return Config{
		Server: ServerConfig{
			Port: 4800,
		},
		LLM: LLMConfig{
			BaseURL: "https://api.groq.com/openai/v1",
			Model:   "llama-3.3-70b-versatile",
		},
		Storage: StorageConfig{
			DataDir: defaultDataDir(),
		},
		Limits: LimitsConfig{
			MaxIncome: 1_000_000,
			MaxGoal:   100_000_000,
			MinAge:    18,
			MaxAge:    100,
		},
		History: HistoryConfig{
			MaxMessages: 5,
			KeepLast:    2,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from the JSON file backend at
// $XDG_CONFIG_HOME/bia/config.json, with BIA_* environment variables
// overriding backend values. The LLM API key is required and only read
// from the environment.
func Load() (Config, error) {
	return loadWith(newPlatformBackend())
}

func loadWith(b ConfigBackend) (Config, error) {
	cfg := defaults()

	if err := applyBackend(&cfg, b); err != nil {
		return Config{}, err
	}

	applyEnvOverrides(&cfg)

	if cfg.LLM.APIKey == "" {
		return Config{}, fmt.Errorf("missing required config: Groq API key. Set it via environment variable BIA_GROQ_API_KEY")
	}

	return cfg, nil
}
