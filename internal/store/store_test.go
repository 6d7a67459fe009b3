package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	st, err := New(filepath.Join(t.TempDir(), "data", "calibreport.db"))
	if err != nil {
		t.Fatalf("init store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func TestConfigRoundTrip(t *testing.T) {
	st := newTestStore(t)

	if _, err := st.GetConfig("missing"); !errors.Is(err, ErrConfigNotFound) {
		t.Fatalf("expected ErrConfigNotFound, got %v", err)
	}
	if err := st.SetConfig("k", "v1"); err != nil {
		t.Fatalf("SetConfig: %v", err)
	}
	if err := st.SetConfig("k", "v2"); err != nil {
		t.Fatalf("SetConfig overwrite: %v", err)
	}
	got, err := st.GetConfig("k")
	if err != nil || got != "v2" {
		t.Fatalf("GetConfig=%q err=%v, want v2", got, err)
	}
}

func TestSessionSnapshot(t *testing.T) {
	st := newTestStore(t)

	if _, ok, err := st.LoadSession(); err != nil || ok {
		t.Fatalf("LoadSession on empty db: ok=%v err=%v", ok, err)
	}

	want := SessionSnapshot{ID: "s_1234", State: "parameter_chosen", Instrument: "角度仪", Parameter: "分度误差", Grade: "七级"}
	if err := st.SaveSession(want); err != nil {
		t.Fatalf("SaveSession: %v", err)
	}
	got, ok, err := st.LoadSession()
	if err != nil || !ok {
		t.Fatalf("LoadSession ok=%v err=%v", ok, err)
	}
	if got != want {
		t.Fatalf("snapshot=%+v, want %+v", got, want)
	}
}

func TestStageLogs(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	for _, stage := range []string{"select_instrument", "select_parameter", "compute"} {
		if _, err := st.RecordStage(ctx, StageLog{SessionID: "s1", Stage: stage, Instrument: "角度仪", Status: "ok"}); err != nil {
			t.Fatalf("RecordStage(%s): %v", stage, err)
		}
	}

	logs, err := st.ListStageLogs(ctx, 2)
	if err != nil {
		t.Fatalf("ListStageLogs: %v", err)
	}
	if len(logs) != 2 {
		t.Fatalf("logs=%d, want 2", len(logs))
	}
	if logs[0].Stage != "compute" || logs[1].Stage != "select_parameter" {
		t.Fatalf("unexpected order: %s, %s", logs[0].Stage, logs[1].Stage)
	}
	if logs[0].CreatedAt.IsZero() {
		t.Fatalf("created_at should be populated")
	}

	all, err := st.ListStageLogs(ctx, 10)
	if err != nil {
		t.Fatalf("ListStageLogs(10): %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("logs=%d, want 3", len(all))
	}
	for _, it := range all {
		if it.SessionID != "s1" {
			t.Fatalf("unexpected session id %q", it.SessionID)
		}
	}
}
