package config

import (
	"strings"
	"testing"
	"time"
)

func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("PORT", "8002")
	t.Setenv("ADDRESS", "127.0.0.1")
	t.Setenv("ENV", "dev")
	t.Setenv("LOG_LEVEL", "info")
}

func TestLoadValidConfig(t *testing.T) {
	setBaseEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if cfg.Port != "8002" {
		t.Errorf("Expected port 8002, got %s", cfg.Port)
	}
	if cfg.Address != "127.0.0.1" {
		t.Errorf("Expected address 127.0.0.1, got %s", cfg.Address)
	}
	if cfg.Env != EnvDevelopment {
		t.Errorf("Expected env dev, got %s", cfg.Env)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("Expected log level info, got %s", cfg.LogLevel)
	}
}

func TestLoadWithDefaults(t *testing.T) {
	for _, key := range GetEnvVars() {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if cfg.Port != "8000" {
		t.Errorf("Expected default port 8000, got %s", cfg.Port)
	}
	if cfg.Env != EnvDevelopment {
		t.Errorf("Expected default env dev, got %s", cfg.Env)
	}
	if cfg.StoreBackend != BackendMongo {
		t.Errorf("Expected default backend mongo, got %s", cfg.StoreBackend)
	}
	if cfg.MongoURI != "mongodb://localhost:27017" {
		t.Errorf("Expected default Mongo URI, got %s", cfg.MongoURI)
	}
	if cfg.MongoDatabase != "openbnf" || cfg.DrugsCollection != "drugs" || cfg.CodesCollection != "codes" {
		t.Errorf("Unexpected Mongo defaults: %s/%s/%s", cfg.MongoDatabase, cfg.DrugsCollection, cfg.CodesCollection)
	}
	if cfg.MongoQueryTimeout != 10*time.Second {
		t.Errorf("Expected 10s query timeout, got %s", cfg.MongoQueryTimeout)
	}
	if cfg.FuzzyCutoff != 0.6 || cfg.FuzzyLimit != 3 {
		t.Errorf("Expected fuzzy defaults 0.6/3, got %v/%d", cfg.FuzzyCutoff, cfg.FuzzyLimit)
	}
	if cfg.MonitorInterval != time.Hour {
		t.Errorf("Expected 1h monitor interval, got %s", cfg.MonitorInterval)
	}
}

func TestLoadMemoryBackend(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("STORE_BACKEND", "memory")
	t.Setenv("SEED_FILE", "")

	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "SEED_FILE is required") {
		t.Fatalf("Expected SEED_FILE error, got %v", err)
	}

	t.Setenv("SEED_FILE", "testdata/drugs.json")
	t.Setenv("SEED_CODES_FILE", "testdata/codes.json")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if cfg.SeedFile != "testdata/drugs.json" || cfg.SeedCodesFile != "testdata/codes.json" {
		t.Errorf("Unexpected seed files %q %q", cfg.SeedFile, cfg.SeedCodesFile)
	}
}

func TestInvalidValues(t *testing.T) {
	testCases := []struct {
		key      string
		value    string
		expected string
	}{
		{"PORT", "abc", "PORT must be a valid number"},
		{"PORT", "0", "PORT must be between 1 and 65535"},
		{"PORT", "65536", "PORT must be between 1 and 65535"},
		{"PORT", "80", "PORT 80 is privileged"},
		{"ADDRESS", "invalid", "ADDRESS must be a valid IP address"},
		{"ADDRESS", "8.8.8.8", "is a public IP"},
		{"ENV", "invalid", "ENV must be one of"},
		{"LOG_LEVEL", "invalid", "LOG_LEVEL must be one of"},
		{"MAX_REQUEST_BODY", "-1", "MAX_REQUEST_BODY must be positive"},
		{"LOG_RETENTION_WEEKS", "60", "LOG_RETENTION_WEEKS is too large"},
		{"MAX_LOG_FILE_SIZE", "1024", "MAX_LOG_FILE_SIZE is too small"},
		{"STORE_BACKEND", "postgres", "STORE_BACKEND must be one of"},
		{"MONGO_URI", "localhost:27017", "MONGO_URI must start with"},
		{"FUZZY_CUTOFF", "0", "FUZZY_CUTOFF must be in (0, 1]"},
		{"FUZZY_CUTOFF", "1.5", "FUZZY_CUTOFF must be in (0, 1]"},
		{"FUZZY_LIMIT", "0", "FUZZY_LIMIT must be between 1 and 50"},
		{"FUZZY_LIMIT", "51", "FUZZY_LIMIT must be between 1 and 50"},
		{"MONITOR_INTERVAL", "10s", "MONITOR_INTERVAL"},
	}

	for _, tc := range testCases {
		t.Run(tc.key+"="+tc.value, func(t *testing.T) {
			setBaseEnv(t)
			t.Setenv(tc.key, tc.value)

			_, err := Load()
			if err == nil {
				t.Fatalf("Expected error for %s=%s, got nil", tc.key, tc.value)
			}
			if !strings.Contains(err.Error(), tc.expected) {
				t.Errorf("Expected error containing %q, got %v", tc.expected, err)
			}
		})
	}
}

func TestValidAddresses(t *testing.T) {
	for _, address := range []string{"127.0.0.1", "::1", "localhost", "0.0.0.0", "10.0.0.5", "192.168.1.20"} {
		if err := validateAddress(address); err != nil {
			t.Errorf("Expected %s to be accepted, got %v", address, err)
		}
	}
}

func TestParseEnvironment(t *testing.T) {
	tests := []struct {
		input    string
		expected Environment
		hasError bool
	}{
		{"dev", EnvDevelopment, false},
		{"development", EnvDevelopment, false},
		{"staging", EnvStaging, false},
		{"prod", EnvProduction, false},
		{"PRODUCTION", EnvProduction, false},
		{"test", EnvTest, false},
		{"invalid", EnvDevelopment, true},
		{"", EnvDevelopment, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			env, err := ParseEnvironment(tt.input)
			if tt.hasError {
				if err == nil {
					t.Errorf("Expected error for %s, got none", tt.input)
				}
				return
			}
			if err != nil {
				t.Errorf("Unexpected error for %s: %v", tt.input, err)
			}
			if env != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, env)
			}
		})
	}
}

func TestEnvironmentString(t *testing.T) {
	tests := []struct {
		env      Environment
		expected string
	}{
		{EnvDevelopment, "dev"},
		{EnvStaging, "staging"},
		{EnvProduction, "prod"},
		{EnvTest, "test"},
	}

	for _, tt := range tests {
		if got := tt.env.String(); got != tt.expected {
			t.Errorf("Expected %s, got %s", tt.expected, got)
		}
	}
}
