package logging

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLogger_LevelsAndFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewFromZap(zap.New(core))
	ctx := context.Background()

	log.Debug(ctx, "dbg", "a", 1)
	log.Info(ctx, "inf", "b", 2)
	log.Warn(ctx, "wrn", "c", 3)
	log.Error(ctx, "err", "d", 4)

	entries := logs.All()
	if len(entries) != 4 {
		t.Fatalf("expected 4 entries, got %d", len(entries))
	}
	wantLevels := []zapcore.Level{zapcore.DebugLevel, zapcore.InfoLevel, zapcore.WarnLevel, zapcore.ErrorLevel}
	wantKeys := []string{"a", "b", "c", "d"}
	for i, entry := range entries {
		if entry.Level != wantLevels[i] {
			t.Fatalf("entry %d: expected level %s, got %s", i, wantLevels[i], entry.Level)
		}
		if _, ok := entry.ContextMap()[wantKeys[i]]; !ok {
			t.Fatalf("entry %d: expected key %q in %v", i, wantKeys[i], entry.ContextMap())
		}
	}
}

func TestZapLogger_WithAddsPersistentFields(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	base := NewFromZap(zap.New(core))
	child := base.With("component", "store")

	child.Info(context.Background(), "saved", "key", "forms")
	base.Info(context.Background(), "plain")

	entries := logs.All()
	if got := entries[0].ContextMap()["component"]; got != "store" {
		t.Fatalf("expected component=store, got %v", got)
	}
	if _, ok := entries[1].ContextMap()["component"]; ok {
		t.Fatalf("parent logger should not carry child fields")
	}
}

func TestNewZapLogger_ConsoleAndFile(t *testing.T) {
	var buf bytes.Buffer
	file := filepath.Join(t.TempDir(), "formbuilder.log")

	log, err := NewZapLogger(Options{Level: "warn", Output: &buf, File: file})
	if err != nil {
		t.Fatalf("NewZapLogger: %v", err)
	}
	log.Info(context.Background(), "hidden")
	log.Warn(context.Background(), "visible", "form_id", "f1")
	_ = log.Sync()

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info entry should be filtered at warn level:\n%s", out)
	}
	if !strings.Contains(out, "visible") || !strings.Contains(out, "f1") {
		t.Fatalf("expected warn entry in console output:\n%s", out)
	}

	data, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), `"msg":"visible"`) {
		t.Fatalf("expected JSON entry in file, got:\n%s", data)
	}
}

func TestNewZapLogger_RejectsUnknownSettings(t *testing.T) {
	if _, err := NewZapLogger(Options{Level: "loud"}); err == nil {
		t.Fatalf("expected error for unknown level")
	}
	if _, err := NewZapLogger(Options{Format: "xml"}); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}

func TestNewNop(t *testing.T) {
	log := NewNop()
	log.With("k", "v").Error(context.Background(), "ignored")
}
