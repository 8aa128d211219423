package session_test

import (
	"errors"
	"testing"

	"debate_arena/internal/messagelog"
	"debate_arena/internal/presence"
	"debate_arena/internal/session"
)

func newSession() *session.Session {
	return session.New(session.Config{
		Code:  "AB12CD",
		Topic: "全民基本收入應該實施",
		Host:  "Alice",
	})
}

func TestNewSessionIsOpen(t *testing.T) {
	s := newSession()
	if s.Status() != session.StatusOpen {
		t.Fatalf("new session status = %q, want open", s.Status())
	}
}

func TestFirstMessageActivates(t *testing.T) {
	s := newSession()
	_, appended, err := s.Ingest(messagelog.RawMessage{ID: "m1", Sender: "p1", Message: "開場"})
	if err != nil || !appended {
		t.Fatalf("ingest failed: appended=%v err=%v", appended, err)
	}
	if s.Status() != session.StatusActive {
		t.Fatalf("status after first message = %q, want active", s.Status())
	}
}

func TestSecondParticipantActivates(t *testing.T) {
	s := newSession()
	if err := s.Join(presence.Participant{ID: "p1", DisplayName: "Alice"}); err != nil {
		t.Fatalf("join p1: %v", err)
	}
	if s.Status() != session.StatusOpen {
		t.Fatalf("one participant should not activate: %q", s.Status())
	}
	if err := s.Join(presence.Participant{ID: "p2", DisplayName: "Bob"}); err != nil {
		t.Fatalf("join p2: %v", err)
	}
	if s.Status() != session.StatusActive {
		t.Fatalf("status after second participant = %q, want active", s.Status())
	}
}

func TestDuplicateMessageDoesNotActivateTwice(t *testing.T) {
	s := newSession()
	s.Ingest(messagelog.RawMessage{ID: "m1", Sender: "p1", Message: "x"})
	_, appended, err := s.Ingest(messagelog.RawMessage{ID: "m1", Sender: "p1", Message: "x"})
	if err != nil {
		t.Fatalf("duplicate ingest err: %v", err)
	}
	if appended {
		t.Fatal("duplicate id should not append")
	}
	if len(s.View().Messages) != 1 {
		t.Fatalf("unexpected message count: %d", len(s.View().Messages))
	}
}

func TestEndProducesFrozenSnapshot(t *testing.T) {
	s := newSession()
	s.Join(presence.Participant{ID: "p1", DisplayName: "Alice", Side: presence.SideFor})
	s.Join(presence.Participant{ID: "p2", DisplayName: "Bob", Side: presence.SideAgainst})
	s.Ingest(messagelog.RawMessage{ID: "m1", Sender: "p1", Message: "開場"})

	snap, err := s.End()
	if err != nil {
		t.Fatalf("end: %v", err)
	}
	if snap.Status != session.StatusCompleted {
		t.Fatalf("snapshot status = %q, want completed", snap.Status)
	}
	if snap.EndedAt.IsZero() || snap.EndedAt.Before(snap.CreatedAt) {
		t.Fatalf("EndedAt invalid: created %v ended %v", snap.CreatedAt, snap.EndedAt)
	}

	// 結束後所有變更都必須被拒絕
	if err := s.Join(presence.Participant{ID: "p3"}); !errors.Is(err, session.ErrCompleted) {
		t.Fatalf("join after end: %v", err)
	}
	if err := s.Heartbeat("p1"); !errors.Is(err, session.ErrCompleted) {
		t.Fatalf("heartbeat after end: %v", err)
	}
	if err := s.Leave("p1"); !errors.Is(err, session.ErrCompleted) {
		t.Fatalf("leave after end: %v", err)
	}
	if _, _, err := s.Ingest(messagelog.RawMessage{ID: "m2", Message: "late"}); !errors.Is(err, session.ErrCompleted) {
		t.Fatalf("ingest after end: %v", err)
	}

	// 凍結的快照數量不得改變
	view := s.View()
	if len(view.Messages) != 1 || len(view.Participants) != 2 {
		t.Fatalf("frozen snapshot changed: %d messages, %d participants",
			len(view.Messages), len(view.Participants))
	}
}

func TestEndTwiceRejected(t *testing.T) {
	s := newSession()
	if _, err := s.End(); err != nil {
		t.Fatalf("first end: %v", err)
	}
	if _, err := s.End(); !errors.Is(err, session.ErrCompleted) {
		t.Fatalf("second end should be rejected, got %v", err)
	}
}

func TestViewBeforeEndIsLive(t *testing.T) {
	s := newSession()
	s.Ingest(messagelog.RawMessage{ID: "m1", Sender: "p1", Message: "x"})
	if got := len(s.View().Messages); got != 1 {
		t.Fatalf("view messages = %d, want 1", got)
	}
	s.Ingest(messagelog.RawMessage{ID: "m2", Sender: "p1", Message: "y"})
	if got := len(s.View().Messages); got != 2 {
		t.Fatalf("view messages = %d, want 2", got)
	}
}
