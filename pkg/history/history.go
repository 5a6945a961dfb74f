// Package history persists design conversations in a local SQLite database so
// that follow-up prompts can be sent with their earlier turns.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/jmylchreest/uiforge/internal/logger"
)

// DefaultDBName is the database file name used by DefaultPath.
const DefaultDBName = "history.db"

var (
	// ErrSessionNotFound is returned when a session has no stored turns.
	ErrSessionNotFound = errors.New("session not found")

	// ErrInvalidTurn is returned by Append for an empty session, unknown role or empty content.
	ErrInvalidTurn = errors.New("invalid turn")
)

// Turn is one stored message.
type Turn struct {
	ID        string    `json:"id" yaml:"id"`
	SessionID string    `json:"session_id" yaml:"session_id"`
	Role      string    `json:"role" yaml:"role"`
	Content   string    `json:"content" yaml:"content"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// Session summarises a stored conversation.
type Session struct {
	ID           string    `json:"id" yaml:"id"`
	Turns        int       `json:"turns" yaml:"turns"`
	CreatedAt    time.Time `json:"created_at" yaml:"created_at"`
	LastActivity time.Time `json:"last_activity" yaml:"last_activity"`
}

// Store is a SQLite-backed conversation store. It is safe for concurrent use.
type Store struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// DefaultPath returns the database path under the user's config directory.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate config directory: %w", err)
	}
	return filepath.Join(dir, "uiforge", DefaultDBName), nil
}

// Open opens or creates the database at path and ensures the schema exists.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("history: empty database path")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection keeps PRAGMAs and :memory: databases consistent.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	logger.Debug("history store opened", "path", path)
	return &Store{db: db, path: path, now: time.Now}, nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// NewSessionID returns a fresh random session identifier.
func NewSessionID() string {
	return uuid.NewString()
}

// Append stores one turn at the end of session, creating the session if needed.
func (s *Store) Append(ctx context.Context, session, role, content string) (*Turn, error) {
	turns, err := s.insert(ctx, session, Turn{Role: role, Content: content})
	if err != nil {
		return nil, err
	}
	return &turns[0], nil
}

// AppendExchange records a user prompt and the assistant answer in one
// transaction, so a failed write never leaves half an exchange behind.
func (s *Store) AppendExchange(ctx context.Context, session, prompt, answer string) ([]Turn, error) {
	return s.insert(ctx, session,
		Turn{Role: "user", Content: prompt},
		Turn{Role: "assistant", Content: answer})
}

func (s *Store) insert(ctx context.Context, session string, turns ...Turn) ([]Turn, error) {
	session = strings.TrimSpace(session)
	if session == "" {
		return nil, fmt.Errorf("%w: empty session id", ErrInvalidTurn)
	}
	for _, t := range turns {
		switch {
		case t.Role != "user" && t.Role != "assistant":
			return nil, fmt.Errorf("%w: role %q", ErrInvalidTurn, t.Role)
		case strings.TrimSpace(t.Content) == "":
			return nil, fmt.Errorf("%w: empty content", ErrInvalidTurn)
		}
	}

	now := s.now().UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO sessions (id, created_at, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET updated_at = excluded.updated_at`,
		session, now.UnixMilli(), now.UnixMilli()); err != nil {
		return nil, fmt.Errorf("failed to upsert session: %w", err)
	}

	out := make([]Turn, 0, len(turns))
	for _, t := range turns {
		t.ID = uuid.NewString()
		t.SessionID = session
		t.CreatedAt = now
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO turns (id, session_id, role, content, created_at) VALUES (?, ?, ?, ?, ?)`,
			t.ID, session, t.Role, t.Content, now.UnixMilli()); err != nil {
			return nil, fmt.Errorf("failed to insert turn: %w", err)
		}
		out = append(out, t)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit turn: %w", err)
	}
	return out, nil
}

// Turns returns the last limit turns of session, oldest first.
// A limit of zero or less returns every turn. An unknown session has no turns.
func (s *Store) Turns(ctx context.Context, session string, limit int) ([]Turn, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, session_id, role, content, created_at FROM (
			SELECT seq, id, session_id, role, content, created_at
			FROM turns WHERE session_id = ?
			ORDER BY seq DESC LIMIT ?
		) ORDER BY seq ASC`, session, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query turns: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var turns []Turn
	for rows.Next() {
		var t Turn
		var created int64
		if err := rows.Scan(&t.ID, &t.SessionID, &t.Role, &t.Content, &created); err != nil {
			return nil, fmt.Errorf("failed to scan turn: %w", err)
		}
		t.CreatedAt = time.UnixMilli(created).UTC()
		turns = append(turns, t)
	}
	return turns, rows.Err()
}

// Sessions lists stored sessions, most recently active first.
func (s *Store) Sessions(ctx context.Context) ([]Session, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT s.id, COUNT(t.seq), s.created_at, s.updated_at
		FROM sessions s
		LEFT JOIN turns t ON t.session_id = s.id
		GROUP BY s.id
		ORDER BY s.updated_at DESC, s.id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var sessions []Session
	for rows.Next() {
		var ss Session
		var created, updated int64
		if err := rows.Scan(&ss.ID, &ss.Turns, &created, &updated); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		ss.CreatedAt = time.UnixMilli(created).UTC()
		ss.LastActivity = time.UnixMilli(updated).UTC()
		sessions = append(sessions, ss)
	}
	return sessions, rows.Err()
}

// Clear deletes session and its turns, returning how many turns were removed.
func (s *Store) Clear(ctx context.Context, session string) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM turns WHERE session_id = ?", session).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count turns: %w", err)
	}

	res, err := s.db.ExecContext(ctx, "DELETE FROM sessions WHERE id = ?", session)
	if err != nil {
		return 0, fmt.Errorf("failed to delete session: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return 0, fmt.Errorf("%w: %s", ErrSessionNotFound, session)
	}

	logger.Debug("history session cleared", "session", session, "turns", n)
	return n, nil
}
