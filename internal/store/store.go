package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"livecap/internal/config"
	"livecap/internal/transcript"
)

// ErrSessionNotFound reports a lookup for a session id that does not exist.
var ErrSessionNotFound = errors.New("session not found")

// Store manages session and entry persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the session database.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := cfg.DatabasePath()
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string { return s.path }

const sessionColumns = "id, title, source, started_at, ended_at, created_at"

// CreateSession inserts a new live session and returns it.
func (s *Store) CreateSession(ctx context.Context, title, source string) (*Session, error) {
	now := time.Now().UTC()
	timestamp := now.Format(time.RFC3339Nano)
	id := uuid.NewString()

	if _, err := s.db.ExecContext(
		ctx,
		`INSERT INTO sessions (id, title, source, started_at, ended_at, created_at)
         VALUES (?, ?, ?, ?, ?, ?)`,
		id,
		title,
		nullableString(source),
		timestamp,
		nil,
		timestamp,
	); err != nil {
		return nil, fmt.Errorf("insert session: %w", err)
	}

	return s.SessionByID(ctx, id)
}

// EndSession stamps the session with an end time.
func (s *Store) EndSession(ctx context.Context, id string, endedAt time.Time) error {
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE sessions SET ended_at = ? WHERE id = ?`,
		endedAt.UTC().Format(time.RFC3339Nano),
		id,
	)
	if err != nil {
		return fmt.Errorf("end session: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("end session rows affected: %w", err)
	}
	if affected == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// SessionByID fetches one session by identifier.
func (s *Store) SessionByID(ctx context.Context, id string) (*Session, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+sessionColumns+` FROM sessions WHERE id = ?`, id)
	session, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return session, nil
}

// ListSessions returns all sessions newest first, with entry counts.
func (s *Store) ListSessions(ctx context.Context) ([]*Session, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT s.id, s.title, s.source, s.started_at, s.ended_at, s.created_at,
                COUNT(e.id)
         FROM sessions s
         LEFT JOIN entries e ON e.session_id = s.id
         GROUP BY s.id
         ORDER BY s.started_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*Session
	for rows.Next() {
		var (
			id        string
			title     sql.NullString
			source    sql.NullString
			startedAt sql.NullString
			endedAt   sql.NullString
			createdAt sql.NullString
			count     int
		)
		if err := rows.Scan(&id, &title, &source, &startedAt, &endedAt, &createdAt, &count); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		session := buildSession(id, title, source, startedAt, endedAt, createdAt)
		session.EntryCount = count
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return sessions, nil
}

// DeleteSession removes a session and its entries.
func (s *Store) DeleteSession(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete session rows affected: %w", err)
	}
	if affected == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// AppendEntry persists one confirmed entry at the given sequence position.
// Re-appending the same sequence replaces the stored text, which covers
// entries that grow while still open.
func (s *Store) AppendEntry(ctx context.Context, sessionID string, seq int, entry *transcript.Entry) error {
	if entry == nil {
		return errors.New("entry is nil")
	}
	if _, err := s.db.ExecContext(
		ctx,
		`INSERT INTO entries (session_id, seq, text, created_at, start_time, end_time)
         VALUES (?, ?, ?, ?, ?, ?)
         ON CONFLICT(session_id, seq) DO UPDATE SET
             text = excluded.text,
             start_time = excluded.start_time,
             end_time = excluded.end_time`,
		sessionID,
		seq,
		entry.Text,
		entry.CreatedAt.UTC().Format(time.RFC3339Nano),
		entry.StartTime.UTC().Format(time.RFC3339Nano),
		entry.EndTime.UTC().Format(time.RFC3339Nano),
	); err != nil {
		return fmt.Errorf("append entry: %w", err)
	}
	return nil
}

// ReplaceEntries swaps a session's entries in one transaction. Reflow uses
// this to commit the reshaped transcript atomically.
func (s *Store) ReplaceEntries(ctx context.Context, sessionID string, entries []*transcript.Entry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace entries: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM entries WHERE session_id = ?`, sessionID); err != nil {
		return fmt.Errorf("clear entries: %w", err)
	}
	for seq, entry := range entries {
		if entry == nil {
			continue
		}
		if _, err := tx.ExecContext(
			ctx,
			`INSERT INTO entries (session_id, seq, text, created_at, start_time, end_time)
             VALUES (?, ?, ?, ?, ?, ?)`,
			sessionID,
			seq,
			entry.Text,
			entry.CreatedAt.UTC().Format(time.RFC3339Nano),
			entry.StartTime.UTC().Format(time.RFC3339Nano),
			entry.EndTime.UTC().Format(time.RFC3339Nano),
		); err != nil {
			return fmt.Errorf("insert entry %d: %w", seq, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace entries: %w", err)
	}
	return nil
}

// Entries returns a session's entries in sequence order.
func (s *Store) Entries(ctx context.Context, sessionID string) ([]*transcript.Entry, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT text, created_at, start_time, end_time FROM entries
         WHERE session_id = ? ORDER BY seq`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	var entries []*transcript.Entry
	for rows.Next() {
		var (
			text     string
			created  sql.NullString
			startRaw sql.NullString
			endRaw   sql.NullString
		)
		if err := rows.Scan(&text, &created, &startRaw, &endRaw); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		createdAt, _ := parseTimeString(created.String)
		start, _ := parseTimeString(startRaw.String)
		end, _ := parseTimeString(endRaw.String)
		entries = append(entries, transcript.NewEntrySpan(text, createdAt, start, end))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}
	return entries, nil
}

func scanSession(scanner interface{ Scan(dest ...any) error }) (*Session, error) {
	var (
		id        string
		title     sql.NullString
		source    sql.NullString
		startedAt sql.NullString
		endedAt   sql.NullString
		createdAt sql.NullString
	)
	if err := scanner.Scan(&id, &title, &source, &startedAt, &endedAt, &createdAt); err != nil {
		return nil, err
	}
	return buildSession(id, title, source, startedAt, endedAt, createdAt), nil
}

func buildSession(id string, title, source, startedAt, endedAt, createdAt sql.NullString) *Session {
	session := &Session{
		ID:     id,
		Title:  title.String,
		Source: source.String,
	}
	if started, err := parseTimeString(startedAt.String); err == nil {
		session.StartedAt = started
	}
	if created, err := parseTimeString(createdAt.String); err == nil {
		session.CreatedAt = created
	}
	if endedAt.Valid {
		if ended, err := parseTimeString(endedAt.String); err == nil {
			session.EndedAt = &ended
		}
	}
	return session
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}
