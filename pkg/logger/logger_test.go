package logger

import (
	"path/filepath"
	"testing"

	"codestep_backend/internal/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestLevel(t *testing.T) {
	cases := []struct {
		name string
		cfg  config.Config
		want zapcore.Level
	}{
		{"explicit", config.Config{Log: config.LogConfig{Level: "warn"}}, zap.WarnLevel},
		{"debug mode", config.Config{Server: config.ServerConfig{Mode: "debug"}}, zap.DebugLevel},
		{"release mode", config.Config{Server: config.ServerConfig{Mode: "release"}}, zap.InfoLevel},
		{"invalid falls back", config.Config{Log: config.LogConfig{Level: "loud"}, Server: config.ServerConfig{Mode: "debug"}}, zap.DebugLevel},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := level(&tc.cfg); got != tc.want {
				t.Fatalf("level: want=%v got=%v", tc.want, got)
			}
		})
	}
}

func TestInitLoggerReplacesNop(t *testing.T) {
	prev := Log
	defer func() { Log = prev }()

	InitLogger(&config.Config{
		Server: config.ServerConfig{Mode: "release"},
		Log:    config.LogConfig{File: filepath.Join(t.TempDir(), "app.log"), MaxSize: 1},
	})
	if !Log.Core().Enabled(zap.InfoLevel) {
		t.Fatalf("info level should be enabled")
	}
	if Log.Core().Enabled(zap.DebugLevel) {
		t.Fatalf("debug level should be disabled in release mode")
	}
}
