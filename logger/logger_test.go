package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestNewDefault(t *testing.T) {
	l := NewDefault("test-svc")
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
	if l.service != "test-svc" {
		t.Errorf("expected service 'test-svc', got %q", l.service)
	}
}

func TestNewWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&Config{Level: "info", Format: "json"}, "my-service", &buf)

	l.WithComponent("resolver").Error("request failed", Fields(FieldStatus, 404, FieldErrorType, "BusinessError"))

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v (%s)", err, buf.String())
	}
	if entry["level"] != "error" {
		t.Errorf("expected level error, got %v", entry["level"])
	}
	if entry["message"] != "request failed" {
		t.Errorf("unexpected message %v", entry["message"])
	}
	if entry[FieldComponent] != "resolver" {
		t.Errorf("expected component resolver, got %v", entry[FieldComponent])
	}
	if entry["service"] != "my-service" {
		t.Errorf("expected service my-service, got %v", entry["service"])
	}
	if entry[FieldStatus] != float64(404) {
		t.Errorf("expected status 404, got %v", entry[FieldStatus])
	}
}

func TestNewWithWriter_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&Config{Level: "warn", Format: "json"}, "svc", &buf)

	l.Info("hidden")
	l.Debug("hidden")
	if buf.Len() != 0 {
		t.Fatalf("expected info/debug to be filtered, got %s", buf.String())
	}
	l.Warn("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Errorf("expected warn line, got %s", buf.String())
	}
}

func TestNewWithWriter_InvalidLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&Config{Level: "invalid-level", Format: "json"}, "svc", &buf)
	l.Debug("hidden")
	l.Info("visible")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "visible") {
		t.Errorf("expected info level fallback, got %s", buf.String())
	}
}

func TestConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&Config{Level: "info", Format: "console", NoColor: true}, "errkit", &buf)
	l.Info("hello", Fields("k", "v"))

	out := buf.String()
	if !strings.Contains(out, "[ERR][INF]") {
		t.Errorf("expected service tag and level, got %q", out)
	}
	if !strings.Contains(out, "hello") || !strings.Contains(out, "k:") {
		t.Errorf("expected message and field, got %q", out)
	}
}

func TestWithFieldsAndError(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&Config{Level: "info", Format: "json"}, "svc", &buf)
	l.WithFields(map[string]interface{}{"key": "value"}).WithError(errBoom{}).Info("x")

	if !strings.Contains(buf.String(), `"key":"value"`) || !strings.Contains(buf.String(), `"error":"boom"`) {
		t.Errorf("expected fields in output, got %s", buf.String())
	}
}

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

func TestNop(t *testing.T) {
	// must not panic
	Nop().WithComponent("x").Error("discarded")
}

func TestInitAndGlobal(t *testing.T) {
	Init(&Config{ServiceName: "init-svc", Level: "info", Format: "json"})
	gl := GetGlobalLogger()
	if gl == nil || gl.service != "init-svc" {
		t.Fatalf("expected global logger for init-svc, got %+v", gl)
	}

	l := NewDefault("custom")
	SetGlobalLogger(l)
	if GetGlobalLogger() != l {
		t.Error("expected SetGlobalLogger to set the global logger")
	}

	globalLogger = nil
	if GetGlobalLogger() == nil {
		t.Fatal("expected default global logger to be created")
	}

	// These should not panic
	Debug("debug msg")
	Info("info msg")
	Warn("warn msg")
	Error("error msg")
	_ = WithComponent("c")
}

func TestConfigApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.Level != "info" {
		t.Errorf("expected level 'info', got %q", cfg.Level)
	}
	if cfg.Format != "console" {
		t.Errorf("expected format 'console', got %q", cfg.Format)
	}
	if cfg.Output != "stdout" {
		t.Errorf("expected output 'stdout', got %q", cfg.Output)
	}
	if !cfg.Timestamp {
		t.Error("expected Timestamp to be true")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid", Config{Level: "info", Format: "json", Output: "stdout"}, false},
		{"valid console", Config{Level: "debug", Format: "console", Output: "stderr"}, false},
		{"invalid level", Config{Level: "bad", Format: "json", Output: "stdout"}, true},
		{"invalid format", Config{Level: "info", Format: "xml", Output: "stdout"}, true},
		{"invalid output", Config{Level: "info", Format: "json", Output: "file"}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestFields(t *testing.T) {
	m := Fields("a", 1, "b", "two", 3, "ignored", "dangling")
	if len(m) != 2 || m["a"] != 1 || m["b"] != "two" {
		t.Errorf("unexpected fields %v", m)
	}
	ef := ErrorFields("load", errBoom{})
	if ef[FieldError] != "boom" || ef["operation"] != "load" {
		t.Errorf("unexpected error fields %v", ef)
	}
}
