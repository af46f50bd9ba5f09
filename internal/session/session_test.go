package session_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"checkinq/internal/checkin"
	"checkinq/internal/session"
	"checkinq/internal/testsupport"
)

func TestOpenIsExclusive(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	first, err := session.Open(cfg, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	if _, err := session.Open(cfg, nil); !errors.Is(err, session.ErrBusy) {
		t.Fatalf("expected ErrBusy, got %v", err)
	}

	if err := first.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	second, err := session.Open(cfg, nil)
	if err != nil {
		t.Fatalf("reopen after close: %v", err)
	}
	_ = second.Close()
}

func TestCreateThenRestore(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	ctx := context.Background()
	deliverer := testsupport.NewDeliverer()
	deliverer.FailAll(errors.New("offline"))

	sess, err := session.Open(cfg, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := sess.Restore(ctx, deliverer); !errors.Is(err, checkin.ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
	mgr, err := sess.Create(ctx, 11, deliverer)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := mgr.QueueCheckin(ctx, checkin.Place{ID: 4}, nil, &checkin.RawFile{DataURL: "data:image/png;base64,AAAA"}); err != nil {
		t.Fatalf("QueueCheckin: %v", err)
	}
	mgr.Wait()
	if err := sess.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	sess, err = session.Open(cfg, nil)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer sess.Close()
	if sess.Store().Key() != cfg.Storage.RecordKey {
		t.Fatalf("unexpected record key %q", sess.Store().Key())
	}
	if sess.Medium().Path() != cfg.DatabasePath() {
		t.Fatalf("unexpected database path %q", sess.Medium().Path())
	}
	raw, found, err := sess.Medium().Get(ctx, cfg.Storage.RecordKey)
	if err != nil || !found || !strings.Contains(raw, `"teamId":11`) {
		t.Fatalf("unexpected durable record %q found=%v err=%v", raw, found, err)
	}
	restored, err := sess.Restore(ctx, testsupport.NewDeliverer())
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if restored.TeamID() != 11 || restored.PendingCheckinCount() != 1 {
		t.Fatalf("unexpected restored session team=%d pending=%d", restored.TeamID(), restored.PendingCheckinCount())
	}
}

func TestDelivererFromConfig(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	sess, err := session.Open(cfg, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer sess.Close()
	if _, err := sess.Deliverer(); err != nil {
		t.Fatalf("Deliverer: %v", err)
	}
}
