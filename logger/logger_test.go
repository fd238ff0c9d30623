package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestSensitiveKeysAreRedacted(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewWithCore(core)

	log.Info("connection param updated", "param", "password", "db_password", "hunter2", "session_token", "abc")
	log.With("signing_key", "k").Warn("config loaded", "port", ":8080")

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("logged %d entries, want 2", len(entries))
	}

	fields := entries[0].ContextMap()
	if fields["param"] != "password" {
		t.Fatalf("param = %v, values of non-sensitive keys must pass through", fields["param"])
	}
	if fields["db_password"] != "[REDACTED]" || fields["session_token"] != "[REDACTED]" {
		t.Fatalf("fields = %v", fields)
	}

	fields = entries[1].ContextMap()
	if fields["signing_key"] != "[REDACTED]" || fields["port"] != ":8080" {
		t.Fatalf("fields = %v", fields)
	}
}

func TestOddKeyValueCount(t *testing.T) {
	got := sanitizeKVs([]interface{}{"a", 1, "dangling"})
	if len(got) != 3 || got[2] != "dangling" {
		t.Fatalf("sanitizeKVs = %v", got)
	}
}
