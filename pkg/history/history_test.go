package history

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", DefaultDBName))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// tick makes the store clock advance one second per call.
func tick(s *Store) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	n := 0
	s.now = func() time.Time {
		n++
		return base.Add(time.Duration(n) * time.Second)
	}
}

func mustAppend(t *testing.T, s *Store, session, role, content string) {
	t.Helper()
	if _, err := s.Append(context.Background(), session, role, content); err != nil {
		t.Fatalf("Append(%s, %s) error = %v", session, role, err)
	}
}

func TestStore_AppendAndTurns(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	mustAppend(t, s, "s1", "user", "a pricing card")
	mustAppend(t, s, "s1", "assistant", "<div>card</div>")
	mustAppend(t, s, "s1", "user", "make it blue")
	mustAppend(t, s, "s2", "user", "other")

	tests := []struct {
		name  string
		limit int
		want  []string
	}{
		{"all", 0, []string{"a pricing card", "<div>card</div>", "make it blue"}},
		{"last_two", 2, []string{"<div>card</div>", "make it blue"}},
		{"more_than_stored", 10, []string{"a pricing card", "<div>card</div>", "make it blue"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			turns, err := s.Turns(ctx, "s1", tt.limit)
			if err != nil {
				t.Fatalf("Turns() error = %v", err)
			}
			if len(turns) != len(tt.want) {
				t.Fatalf("got %d turns, want %d", len(turns), len(tt.want))
			}
			for i, want := range tt.want {
				if turns[i].Content != want {
					t.Errorf("turn %d = %q, want %q", i, turns[i].Content, want)
				}
				if turns[i].SessionID != "s1" {
					t.Errorf("turn %d session = %q", i, turns[i].SessionID)
				}
			}
		})
	}
}

func TestStore_TurnsUnknownSession(t *testing.T) {
	s := openTestStore(t)
	turns, err := s.Turns(context.Background(), "missing", 5)
	if err != nil {
		t.Fatalf("Turns() error = %v", err)
	}
	if len(turns) != 0 {
		t.Errorf("got %d turns, want 0", len(turns))
	}
}

func TestStore_AppendInvalid(t *testing.T) {
	s := openTestStore(t)

	tests := []struct {
		name, session, role, content string
	}{
		{"empty_session", " ", "user", "x"},
		{"system_role", "s", "system", "x"},
		{"empty_content", "s", "user", "  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Append(context.Background(), tt.session, tt.role, tt.content)
			if !errors.Is(err, ErrInvalidTurn) {
				t.Errorf("Append() error = %v, want ErrInvalidTurn", err)
			}
		})
	}
}

func TestStore_AppendReturnsTurn(t *testing.T) {
	s := openTestStore(t)
	tick(s)

	turn, err := s.Append(context.Background(), "s1", "user", "hi")
	if err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if _, err := uuid.Parse(turn.ID); err != nil {
		t.Errorf("turn ID %q is not a UUID", turn.ID)
	}

	turns, _ := s.Turns(context.Background(), "s1", 0)
	if len(turns) != 1 || turns[0].ID != turn.ID || !turns[0].CreatedAt.Equal(turn.CreatedAt) {
		t.Errorf("stored turn %+v does not match %+v", turns, turn)
	}
}

func TestStore_AppendExchange(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	turns, err := s.AppendExchange(ctx, "s1", "a navbar", "EXPLANATION: x\nCODE: <nav></nav>")
	if err != nil {
		t.Fatalf("AppendExchange() error = %v", err)
	}
	if len(turns) != 2 || turns[0].Role != "user" || turns[1].Role != "assistant" {
		t.Fatalf("AppendExchange() = %+v, want user then assistant", turns)
	}

	stored, _ := s.Turns(ctx, "s1", 0)
	if len(stored) != 2 || stored[0].ID != turns[0].ID || stored[1].ID != turns[1].ID {
		t.Errorf("stored turns %+v do not match %+v", stored, turns)
	}
}

func TestStore_AppendExchangeIsAtomic(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.AppendExchange(ctx, "s1", "a navbar", "   ")
	if !errors.Is(err, ErrInvalidTurn) {
		t.Fatalf("AppendExchange() error = %v, want ErrInvalidTurn", err)
	}

	turns, _ := s.Turns(ctx, "s1", 0)
	if len(turns) != 0 {
		t.Errorf("Turns() = %+v, want no half-written exchange", turns)
	}
	sessions, _ := s.Sessions(ctx)
	if len(sessions) != 0 {
		t.Errorf("Sessions() = %+v, want none", sessions)
	}
}

func TestStore_Sessions(t *testing.T) {
	s := openTestStore(t)
	tick(s)

	mustAppend(t, s, "old", "user", "a")
	mustAppend(t, s, "new", "user", "b")
	mustAppend(t, s, "new", "assistant", "<p>b</p>")

	sessions, err := s.Sessions(context.Background())
	if err != nil {
		t.Fatalf("Sessions() error = %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("got %d sessions, want 2", len(sessions))
	}
	if sessions[0].ID != "new" || sessions[0].Turns != 2 {
		t.Errorf("sessions[0] = %+v, want new with 2 turns", sessions[0])
	}
	if sessions[1].ID != "old" || sessions[1].Turns != 1 {
		t.Errorf("sessions[1] = %+v, want old with 1 turn", sessions[1])
	}
	if !sessions[0].LastActivity.After(sessions[0].CreatedAt) {
		t.Errorf("LastActivity %v should be after CreatedAt %v", sessions[0].LastActivity, sessions[0].CreatedAt)
	}
}

func TestStore_Clear(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	mustAppend(t, s, "s1", "user", "a")
	mustAppend(t, s, "s1", "assistant", "<b>a</b>")
	mustAppend(t, s, "s2", "user", "b")

	n, err := s.Clear(ctx, "s1")
	if err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if n != 2 {
		t.Errorf("Clear() removed %d turns, want 2", n)
	}

	if turns, _ := s.Turns(ctx, "s1", 0); len(turns) != 0 {
		t.Errorf("turns of cleared session remain: %+v", turns)
	}
	if turns, _ := s.Turns(ctx, "s2", 0); len(turns) != 1 {
		t.Error("Clear() touched another session")
	}

	if _, err := s.Clear(ctx, "s1"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("second Clear() error = %v, want ErrSessionNotFound", err)
	}
}

func TestStore_Persists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "h.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	mustAppend(t, s, "s1", "user", "kept")
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer func() { _ = s.Close() }()

	turns, err := s.Turns(context.Background(), "s1", 0)
	if err != nil || len(turns) != 1 || turns[0].Content != "kept" {
		t.Errorf("Turns() after reopen = %+v, %v", turns, err)
	}
	if s.Path() != path {
		t.Errorf("Path() = %q, want %q", s.Path(), path)
	}
}

func TestOpen_EmptyPath(t *testing.T) {
	if _, err := Open(""); err == nil {
		t.Error("Open(\"\") should fail")
	}
}

func TestNewSessionID(t *testing.T) {
	a, b := NewSessionID(), NewSessionID()
	if a == b {
		t.Error("NewSessionID() returned duplicates")
	}
	if _, err := uuid.Parse(a); err != nil {
		t.Errorf("NewSessionID() = %q is not a UUID: %v", a, err)
	}
}
