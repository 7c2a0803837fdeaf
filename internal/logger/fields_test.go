package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestStringFields(t *testing.T) {
	fields := StringFields(
		StringField{Key: "provider", Value: "gemini"},
		StringField{Key: "  ", Value: "dropped"},
		StringField{Key: "model", Value: "   "},
		StringField{Key: " run_id ", Value: " abc123 "},
	)

	if len(fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(fields))
	}
	if fields[0].Key != "provider" || fields[0].String != "gemini" {
		t.Fatalf("unexpected first field: %+v", fields[0])
	}
	if fields[1].Key != "run_id" || fields[1].String != "abc123" {
		t.Fatalf("expected trimmed key and value, got %+v", fields[1])
	}
}

func TestProviderFields(t *testing.T) {
	fields := ProviderFields("gemini", "gemini-2.5-flash")
	if len(fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(fields))
	}
	if fields[0].Key != FieldProvider || fields[1].Key != FieldModel {
		t.Fatalf("unexpected keys: %q, %q", fields[0].Key, fields[1].Key)
	}

	if fields := ProviderFields("gemini", ""); len(fields) != 1 {
		t.Fatalf("expected empty model omitted, got %d fields", len(fields))
	}
}

func TestWithFields(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)

	logger := WithFields(zap.New(core), zap.String("run_id", "abc123"))
	logger.Info("screening started")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(entries))
	}
	ctx := entries[0].ContextMap()
	if ctx["run_id"] != "abc123" {
		t.Fatalf("expected run_id attached, got %v", ctx)
	}
}

func TestWithFieldsNilLogger(t *testing.T) {
	logger := WithFields(nil)
	if logger == nil {
		t.Fatalf("expected a usable logger")
	}
	logger.Info("no-op")
}
