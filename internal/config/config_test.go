package config

import (
	"os"
	"testing"
	"time"
)

func TestLoadConfig(t *testing.T) {
	if err := os.Setenv("SERVER_PORT", "9090"); err != nil {
		t.Fatalf("Failed to set SERVER_PORT: %v", err)
	}
	if err := os.Setenv("ANALYSIS_TIMEOUT", "45s"); err != nil {
		t.Fatalf("Failed to set ANALYSIS_TIMEOUT: %v", err)
	}
	if err := os.Setenv("USE_MOCK_AI", "false"); err != nil {
		t.Fatalf("Failed to set USE_MOCK_AI: %v", err)
	}
	defer func() {
		_ = os.Unsetenv("SERVER_PORT")
		_ = os.Unsetenv("ANALYSIS_TIMEOUT")
		_ = os.Unsetenv("USE_MOCK_AI")
	}()

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Server.Port != "9090" {
		t.Errorf("Server.Port = %v, want %v", cfg.Server.Port, "9090")
	}

	if cfg.Worker.AnalysisTimeout != 45*time.Second {
		t.Errorf("Worker.AnalysisTimeout = %v, want %v", cfg.Worker.AnalysisTimeout, 45*time.Second)
	}

	if cfg.AI.UseMock {
		t.Error("AI.UseMock = true, want false")
	}
}

func TestAIMode(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{
			name: "mock when UseMock set",
			cfg:  Config{AI: AIConfig{UseMock: true, OpenAIAPIKey: "sk-test"}},
			want: "mock",
		},
		{
			name: "mock when no credential",
			cfg:  Config{AI: AIConfig{UseMock: false}},
			want: "mock",
		},
		{
			name: "configured when live and credentialed",
			cfg:  Config{AI: AIConfig{UseMock: false, OpenAIAPIKey: "sk-test"}},
			want: "configured",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.AIMode(); got != tt.want {
				t.Errorf("AIMode() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMarketplaceMode(t *testing.T) {
	cfg := Config{Marketplace: MarketplaceConfig{UseMock: false, EbayClientID: "abc"}}
	if got := cfg.MarketplaceMode(); got != "configured" {
		t.Errorf("MarketplaceMode() = %v, want configured", got)
	}

	cfg = Config{Marketplace: MarketplaceConfig{UseMock: false}}
	if got := cfg.MarketplaceMode(); got != "mock" {
		t.Errorf("MarketplaceMode() = %v, want mock", got)
	}
}

func TestGetEnvAsBool(t *testing.T) {
	tests := []struct {
		name  string
		value string
		def   bool
		want  bool
	}{
		{"false literal", "false", true, false},
		{"zero", "0", true, false},
		{"uppercase F", "F", true, false},
		{"true literal", "true", false, true},
		{"one", "1", false, true},
		{"unparseable keeps default", "nope", true, true},
		{"empty keeps default", "", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value == "" {
				_ = os.Unsetenv("TEST_BOOL_KEY")
			} else {
				if err := os.Setenv("TEST_BOOL_KEY", tt.value); err != nil {
					t.Fatalf("Failed to set TEST_BOOL_KEY: %v", err)
				}
				defer func() { _ = os.Unsetenv("TEST_BOOL_KEY") }()
			}

			if got := getEnvAsBool("TEST_BOOL_KEY", tt.def); got != tt.want {
				t.Errorf("getEnvAsBool(%q, %v) = %v, want %v", tt.value, tt.def, got, tt.want)
			}
		})
	}
}
