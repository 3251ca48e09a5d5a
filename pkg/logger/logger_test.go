package logger

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/shritish20/Volguard-4/pkg/config"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		cfg       *config.Config
		wantLevel zerolog.Level
	}{
		{
			name: "debug level",
			cfg: &config.Config{
				Env:       "development",
				LogLevel:  "debug",
				LogFormat: "json",
			},
			wantLevel: zerolog.DebugLevel,
		},
		{
			name: "info level",
			cfg: &config.Config{
				Env:       "production",
				LogLevel:  "info",
				LogFormat: "json",
			},
			wantLevel: zerolog.InfoLevel,
		},
		{
			name: "warn level",
			cfg: &config.Config{
				Env:       "staging",
				LogLevel:  "warn",
				LogFormat: "console",
			},
			wantLevel: zerolog.WarnLevel,
		},
		{
			name: "unknown level defaults to info",
			cfg: &config.Config{
				Env:       "production",
				LogLevel:  "whatever",
				LogFormat: "json",
			},
			wantLevel: zerolog.InfoLevel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := New(tt.cfg)
			if logger == nil {
				t.Fatal("Expected logger to be created")
			}

			if zerolog.GlobalLevel() != tt.wantLevel {
				t.Errorf("Expected global level %v, got %v", tt.wantLevel, zerolog.GlobalLevel())
			}
		})
	}
}

func TestWithFields(t *testing.T) {
	base := NewNop()

	child := base.WithFields(map[string]interface{}{
		"underlying": "NSE_INDEX|Nifty 50",
		"expiry":     "2026-09-03",
	})
	if child == nil {
		t.Fatal("Expected derived logger")
	}
	if child == base {
		t.Error("WithFields should return a new logger")
	}
}
