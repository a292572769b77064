package config

import (
	"fmt"
	"os"
	"strconv"
)

type keyType int

const (
	kString keyType = iota
	kInt
	kFloat
)

type keySpec struct {
	key     string
	typ     keyType
	env     string
	secret  bool
	apply   func(cfg *Config, v any)
	extract func(cfg Config) any
}

var specs = []keySpec{
	{
		key: "server.port", typ: kInt, env: "BIA_SERVER_PORT",
		apply:   func(cfg *Config, v any) { cfg.Server.Port = v.(int) },
		extract: func(cfg Config) any { return cfg.Server.Port },
	},
	{
		key: "server.api_token", typ: kString, env: "BIA_API_TOKEN",
		secret:  true,
		apply:   func(cfg *Config, v any) { cfg.Server.APIToken = v.(string) },
		extract: func(cfg Config) any { return cfg.Server.APIToken },
	},
	{
		key: "llm.base_url", typ: kString, env: "BIA_LLM_BASE_URL",
		apply:   func(cfg *Config, v any) { cfg.LLM.BaseURL = v.(string) },
		extract: func(cfg Config) any { return cfg.LLM.BaseURL },
	},
	{
		key: "llm.model", typ: kString, env: "BIA_LLM_MODEL",
		apply:   func(cfg *Config, v any) { cfg.LLM.Model = v.(string) },
		extract: func(cfg Config) any { return cfg.LLM.Model },
	},
	{
		key: "llm.api_key", typ: kString, env: "BIA_GROQ_API_KEY",
		secret:  true,
		apply:   func(cfg *Config, v any) { cfg.LLM.APIKey = v.(string) },
		extract: func(cfg Config) any { return cfg.LLM.APIKey },
	},
	{
		key: "storage.data_dir", typ: kString, env: "BIA_STORAGE_DATA_DIR",
		apply:   func(cfg *Config, v any) { cfg.Storage.DataDir = v.(string) },
		extract: func(cfg Config) any { return cfg.Storage.DataDir },
	},
	{
		key: "limits.max_income", typ: kFloat, env: "BIA_LIMITS_MAX_INCOME",
		apply:   func(cfg *Config, v any) { cfg.Limits.MaxIncome = v.(float64) },
		extract: func(cfg Config) any { return cfg.Limits.MaxIncome },
	},
	{
		key: "limits.max_goal", typ: kFloat, env: "BIA_LIMITS_MAX_GOAL",
		apply:   func(cfg *Config, v any) { cfg.Limits.MaxGoal = v.(float64) },
		extract: func(cfg Config) any { return cfg.Limits.MaxGoal },
	},
	{
		key: "limits.min_age", typ: kInt, env: "BIA_LIMITS_MIN_AGE",
		apply:   func(cfg *Config, v any) { cfg.Limits.MinAge = v.(int) },
		extract: func(cfg Config) any { return cfg.Limits.MinAge },
	},
	{
		key: "limits.max_age", typ: kInt, env: "BIA_LIMITS_MAX_AGE",
		apply:   func(cfg *Config, v any) { cfg.Limits.MaxAge = v.(int) },
		extract: func(cfg Config) any { return cfg.Limits.MaxAge },
	},
	{
		key: "history.max_messages", typ: kInt, env: "BIA_HISTORY_MAX_MESSAGES",
		apply:   func(cfg *Config, v any) { cfg.History.MaxMessages = v.(int) },
		extract: func(cfg Config) any { return cfg.History.MaxMessages },
	},
	{
		key: "history.keep_last", typ: kInt, env: "BIA_HISTORY_KEEP_LAST",
		apply:   func(cfg *Config, v any) { cfg.History.KeepLast = v.(int) },
		extract: func(cfg Config) any { return cfg.History.KeepLast },
	},
	{
		key: "log.level", typ: kString, env: "BIA_LOG_LEVEL",
		apply:   func(cfg *Config, v any) { cfg.Log.Level = v.(string) },
		extract: func(cfg Config) any { return cfg.Log.Level },
	},
}

func applyBackend(cfg *Config, b ConfigBackend) error {
	for _, s := range specs {
		if s.secret {
			continue
		}
		switch s.typ {
		case kString:
			v, ok, err := b.GetString(s.key)
			if err != nil {
				return fmt.Errorf("reading %s: %w", s.key, err)
			}
			if ok {
				s.apply(cfg, v)
			}
		case kInt:
			v, ok, err := b.GetInt(s.key)
			if err != nil {
				return fmt.Errorf("reading %s: %w", s.key, err)
			}
			if ok {
				s.apply(cfg, v)
			}
		case kFloat:
			v, ok, err := b.GetString(s.key)
			if err != nil {
				return fmt.Errorf("reading %s: %w", s.key, err)
			}
			if ok && v != "" {
				if f, err := strconv.ParseFloat(v, 64); err == nil {
					s.apply(cfg, f)
				} else {
					fmt.Fprintf(os.Stderr, "[WARN] could not parse float from config key %s=%q: %v. Using default value.\n", s.key, v, err)
				}
			}
		}
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	for _, s := range specs {
		if s.env == "" {
			continue
		}
		raw := os.Getenv(s.env)
		if raw == "" {
			continue
		}
		switch s.typ {
		case kString:
			s.apply(cfg, raw)
		case kInt:
			if i, err := strconv.Atoi(raw); err == nil {
				s.apply(cfg, i)
			} else {
				fmt.Fprintf(os.Stderr, "[WARN] could not parse integer from env var %s=%q: %v. Using default value.\n", s.env, raw, err)
			}
		case kFloat:
			if f, err := strconv.ParseFloat(raw, 64); err == nil {
				s.apply(cfg, f)
			} else {
				fmt.Fprintf(os.Stderr, "[WARN] could not parse float from env var %s=%q: %v. Using default value.\n", s.env, raw, err)
			}
		}
	}
}
