package repo

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogger_RecordsRefUpdates(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	r := newTestRepo(t, WithLogger(zap.New(core)))

	h := mustCommit(t, r, map[string]any{"a": 1})

	updates := logs.FilterMessage("ref updated").All()
	if len(updates) != 1 {
		t.Fatalf("got %d ref updates, want 1", len(updates))
	}
	fields := updates[0].ContextMap()
	if fields["ref"] != "heads/main" || fields["new"] != string(h) || fields["reason"] != "commit" {
		t.Errorf("ref update fields = %v", fields)
	}
	if logs.FilterMessage("commit").Len() != 1 {
		t.Errorf("missing commit log entry")
	}
}

func TestWithLogger_NilKeepsDefault(t *testing.T) {
	r := newTestRepo(t, WithLogger(nil))
	if r.log == nil {
		t.Fatal("logger is nil")
	}
	mustCommit(t, r, map[string]any{"a": 1})
}
