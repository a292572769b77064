package config

import (
	"strconv"
	"testing"
)

// mapBackend is an in-memory ConfigBackend for tests.
type mapBackend struct {
	data map[string]string
}

func (b *mapBackend) GetString(key string) (string, bool, error) {
	v, ok := b.data[key]
	return v, ok, nil
}

func (b *mapBackend) GetInt(key string) (int, bool, error) {
	v, ok := b.data[key]
	if !ok {
		return 0, false, nil
	}
	i, err := strconv.Atoi(v)
	return i, true, err
}

func (b *mapBackend) SetString(key, val string) error {
	b.data[key] = val
	return nil
}

func (b *mapBackend) SetInt(key string, val int) error {
	b.data[key] = strconv.Itoa(val)
	return nil
}

func (b *mapBackend) Delete(key string) error {
	delete(b.data, key)
	return nil
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("BIA_GROQ_API_KEY", "test-key")

	cfg, err := loadWith(&mapBackend{data: map[string]string{}})
	if err != nil {
		t.Fatalf("loadWith: %v", err)
	}

	if cfg.Server.Port != 4800 {
		t.Errorf("Port = %d, want 4800", cfg.Server.Port)
	}
	if cfg.LLM.Model != "llama-3.3-70b-versatile" {
		t.Errorf("Model = %q", cfg.LLM.Model)
	}
	if cfg.Limits.MinAge != 18 || cfg.Limits.MaxAge != 100 {
		t.Errorf("age bounds = (%d, %d), want (18, 100)", cfg.Limits.MinAge, cfg.Limits.MaxAge)
	}
	if cfg.Limits.MaxIncome != 1_000_000 {
		t.Errorf("MaxIncome = %v", cfg.Limits.MaxIncome)
	}
	if cfg.History.MaxMessages != 5 || cfg.History.KeepLast != 2 {
		t.Errorf("history = %+v", cfg.History)
	}
	if cfg.LLM.APIKey != "test-key" {
		t.Errorf("APIKey = %q", cfg.LLM.APIKey)
	}
}

func TestLoad_BackendValues(t *testing.T) {
	t.Setenv("BIA_GROQ_API_KEY", "test-key")

	b := &mapBackend{data: map[string]string{
		"server.port":       "9000",
		"llm.model":         "mixtral-8x7b",
		"limits.max_income": "500000",
	}}
	cfg, err := loadWith(b)
	if err != nil {
		t.Fatalf("loadWith: %v", err)
	}

	if cfg.Server.Port != 9000 {
		t.Errorf("Port = %d, want 9000", cfg.Server.Port)
	}
	if cfg.LLM.Model != "mixtral-8x7b" {
		t.Errorf("Model = %q", cfg.LLM.Model)
	}
	if cfg.Limits.MaxIncome != 500000 {
		t.Errorf("MaxIncome = %v, want 500000", cfg.Limits.MaxIncome)
	}
}

func TestLoad_EnvOverridesBackend(t *testing.T) {
	t.Setenv("BIA_GROQ_API_KEY", "test-key")
	t.Setenv("BIA_SERVER_PORT", "5555")
	t.Setenv("BIA_LIMITS_MIN_AGE", "21")

	b := &mapBackend{data: map[string]string{"server.port": "9000"}}
	cfg, err := loadWith(b)
	if err != nil {
		t.Fatalf("loadWith: %v", err)
	}

	if cfg.Server.Port != 5555 {
		t.Errorf("Port = %d, want env override 5555", cfg.Server.Port)
	}
	if cfg.Limits.MinAge != 21 {
		t.Errorf("MinAge = %d, want 21", cfg.Limits.MinAge)
	}
}

func TestLoad_MissingAPIKey(t *testing.T) {
	t.Setenv("BIA_GROQ_API_KEY", "")

	if _, err := loadWith(&mapBackend{data: map[string]string{}}); err == nil {
		t.Fatal("expected error for missing API key")
	}
}

func TestLoad_SecretsNotReadFromBackend(t *testing.T) {
	t.Setenv("BIA_GROQ_API_KEY", "env-key")

	b := &mapBackend{data: map[string]string{"llm.api_key": "file-key"}}
	cfg, err := loadWith(b)
	if err != nil {
		t.Fatalf("loadWith: %v", err)
	}
	if cfg.LLM.APIKey != "env-key" {
		t.Errorf("APIKey = %q, secrets must come from the environment only", cfg.LLM.APIKey)
	}
}

func TestShowAll_HidesSecrets(t *testing.T) {
	t.Setenv("BIA_GROQ_API_KEY", "test-key")
	cfg, err := loadWith(&mapBackend{data: map[string]string{}})
	if err != nil {
		t.Fatalf("loadWith: %v", err)
	}

	for _, info := range ShowAll(cfg) {
		if info.Key == "llm.api_key" || info.Key == "server.api_token" {
			t.Errorf("secret key %q exposed by ShowAll", info.Key)
		}
	}
}

func TestValidKeys(t *testing.T) {
	keys := ValidKeys()
	want := map[string]bool{"server.port": false, "limits.max_income": false}
	for _, k := range keys {
		if _, ok := want[k]; ok {
			want[k] = true
		}
		if k == "llm.api_key" {
			t.Error("secret listed in ValidKeys")
		}
	}
	for k, seen := range want {
		if !seen {
			t.Errorf("key %q missing from ValidKeys", k)
		}
	}
}
