package config

import (
	"testing"

	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
)

func loggerConfig(level, format string) *viper.Viper {
	v := viper.New()
	v.Set("logging.level", level)
	v.Set("logging.format", format)
	return v
}

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name   string
		level  string
		format string
	}{
		{"json info", "info", "json"},
		{"json debug", "debug", "json"},
		{"console warn", "warn", "console"},
		{"empty format defaults to json", "info", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := NewLogger(loggerConfig(tt.level, tt.format))
			if err != nil {
				t.Fatalf("NewLogger() error = %v", err)
			}
			if logger == nil {
				t.Fatal("NewLogger() returned nil logger")
			}
		})
	}
}

func TestNewLogger_LevelApplied(t *testing.T) {
	logger, err := NewLogger(loggerConfig("warn", "json"))
	if err != nil {
		t.Fatalf("NewLogger() error = %v", err)
	}
	if logger.Core().Enabled(zapcore.InfoLevel) {
		t.Error("info should be disabled at warn level")
	}
	if !logger.Core().Enabled(zapcore.WarnLevel) {
		t.Error("warn should be enabled at warn level")
	}
}

func TestNewLogger_InvalidLevel(t *testing.T) {
	if _, err := NewLogger(loggerConfig("banana", "json")); err == nil {
		t.Fatal("expected error for invalid level")
	}
}

func TestNewLogger_InvalidFormat(t *testing.T) {
	if _, err := NewLogger(loggerConfig("info", "xml")); err == nil {
		t.Fatal("expected error for invalid format")
	}
}
