package logger

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

// resetLogger resets the logger to default state for test isolation
func resetLogger() {
	Init(Options{})
}

func TestInit_Levels(t *testing.T) {
	tests := []struct {
		name      string
		opts      Options
		wantDebug bool
		wantInfo  bool
		wantWarn  bool
	}{
		{"default", Options{}, false, true, true},
		{"debug", Options{Debug: true}, true, true, true},
		{"quiet", Options{Quiet: true}, false, false, false},
		{"quiet_overrides_debug", Options{Debug: true, Quiet: true}, false, false, false},
		{"explicit_warn", Options{Level: "warn"}, false, false, true},
		{"explicit_level_wins", Options{Level: "debug", Quiet: true}, true, true, true},
		{"unknown_level_uses_flags", Options{Level: "loud", Debug: true}, true, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			tt.opts.Output = buf
			Init(tt.opts)
			defer resetLogger()

			Debug("debug-line")
			Info("info-line")
			Warn("warn-line")
			Error("error-line")

			out := buf.String()
			if got := strings.Contains(out, "debug-line"); got != tt.wantDebug {
				t.Errorf("debug logged = %v, want %v", got, tt.wantDebug)
			}
			if got := strings.Contains(out, "info-line"); got != tt.wantInfo {
				t.Errorf("info logged = %v, want %v", got, tt.wantInfo)
			}
			if got := strings.Contains(out, "warn-line"); got != tt.wantWarn {
				t.Errorf("warn logged = %v, want %v", got, tt.wantWarn)
			}
			if !strings.Contains(out, "error-line") {
				t.Error("error should always be logged")
			}
		})
	}
}

func TestInit_JSONFormat(t *testing.T) {
	buf := &bytes.Buffer{}
	Init(Options{JSON: true, Output: buf})
	defer resetLogger()

	Info("test message", "provider", "ollama")

	output := buf.String()
	for _, want := range []string{`"msg":"test message"`, `"level":"INFO"`, `"provider":"ollama"`} {
		if !strings.Contains(output, want) {
			t.Errorf("JSON output missing %s: %s", want, output)
		}
	}
}

func TestInit_TextFormat(t *testing.T) {
	buf := &bytes.Buffer{}
	Init(Options{Output: buf})
	defer resetLogger()

	Info("test message", "count", 42)

	output := buf.String()
	if !strings.Contains(output, "test message") || !strings.Contains(output, "count=42") {
		t.Errorf("unexpected text output: %s", output)
	}
	if !strings.Contains(output, "INFO") {
		t.Error("Text output should contain level INFO")
	}
}

func TestInit_CustomLogger(t *testing.T) {
	buf := &bytes.Buffer{}
	custom := slog.New(slog.NewTextHandler(buf, nil))
	Init(Options{Logger: custom, Debug: true})
	defer resetLogger()

	if Logger() != custom {
		t.Error("Logger() should return the custom logger")
	}
}

func TestSetLogger(t *testing.T) {
	buf := &bytes.Buffer{}
	SetLogger(slog.New(slog.NewTextHandler(buf, nil)))
	defer resetLogger()

	SetLogger(nil) // ignored
	Info("after set")

	if !strings.Contains(buf.String(), "after set") {
		t.Error("SetLogger(nil) should keep the previous logger")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
		{" warning ", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"trace", slog.LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLevel() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWith_ReturnsLoggerWithAttrs(t *testing.T) {
	buf := &bytes.Buffer{}
	Init(Options{Output: buf})
	defer resetLogger()

	l := With("session", "abc")
	l.Info("test with attrs")

	if !strings.Contains(buf.String(), "session=abc") {
		t.Errorf("expected attributes in output: %s", buf.String())
	}
}

func TestContextHelpers(t *testing.T) {
	buf := &bytes.Buffer{}
	Init(Options{Debug: true, Output: buf})
	defer resetLogger()

	ctx := context.Background()
	DebugContext(ctx, "debug with context")
	InfoContext(ctx, "info with context")
	WarnContext(ctx, "warn with context")
	ErrorContext(ctx, "error with context")

	for _, want := range []string{"debug with context", "info with context", "warn with context", "error with context"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("missing %q in output", want)
		}
	}
}
