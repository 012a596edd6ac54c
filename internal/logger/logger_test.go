package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/akave-ai/logingest/internal/config"
)

func TestNew_JSONFieldsAndLevel(t *testing.T) {
	cfg := config.DefaultObservabilityConfig()
	cfg.Environment = "test"
	cfg.Logging.Level = "warn"

	var buf bytes.Buffer
	log := New(cfg, &buf)
	log.Info().Msg("dropped")
	log.Warn().Str("key", "f1.json").Msg("kept")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 line at warn level, got %d: %q", len(lines), buf.String())
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for k, want := range map[string]string{"service": "logingest", "env": "test", "key": "f1.json", "message": "kept", "level": "warn"} {
		if entry[k] != want {
			t.Fatalf("field %s: expected %q, got %v", k, want, entry[k])
		}
	}
}

func TestNew_ConsoleFormat(t *testing.T) {
	cfg := config.DefaultObservabilityConfig()
	cfg.Logging.Format = "console"

	var buf bytes.Buffer
	log := New(cfg, &buf)
	log.Info().Msg("hello")
	if out := buf.String(); !strings.Contains(out, "hello") || strings.HasPrefix(out, "{") {
		t.Fatalf("expected console output, got %q", out)
	}
}

func TestNewRelicApp_DisabledWithoutLicense(t *testing.T) {
	app, err := NewRelicApp(config.DefaultObservabilityConfig())
	if err != nil || app != nil {
		t.Fatalf("expected nil app and nil error, got %v, %v", app, err)
	}
}
