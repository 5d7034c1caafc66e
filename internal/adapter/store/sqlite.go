package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/Chxpz/futmatrix-whop-agents/internal/domain"
)

// SQLiteStore implements domain.ConversationStore on a SQLite database,
// for deployments where conversations must survive a restart. Retention is
// enforced per conversation on every append.
type SQLiteStore struct {
	db        *sql.DB
	retention int
}

// NewSQLiteStore opens (or creates) the database at dbPath and runs the
// schema migration.
func NewSQLiteStore(dbPath string, retention int) (*SQLiteStore, error) {
	if retention <= 0 {
		retention = 20
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open conversation db: %w", err)
	}
	// WAL mode for better concurrent reads.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate conversation db: %w", err)
	}
	return &SQLiteStore{db: db, retention: retention}, nil
}

func migrate(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS conversation_turns (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			agent_id    TEXT NOT NULL,
			user_id     TEXT NOT NULL,
			role        TEXT NOT NULL,
			content     TEXT NOT NULL,
			tokens_used INTEGER NOT NULL DEFAULT 0,
			created_at  TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_conversation_turns_key
			ON conversation_turns (agent_id, user_id, id);
	`)
	return err
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Append implements domain.ConversationStore. The insert and the retention
// trim run in one transaction so a crash never leaves an over-full log.
func (s *SQLiteStore) Append(ctx context.Context, key domain.ConversationKey, turn domain.Turn) error {
	if turn.Timestamp.IsZero() {
		turn.Timestamp = time.Now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin append: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO conversation_turns (agent_id, user_id, role, content, tokens_used, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		key.AgentID, key.UserID, turn.Role, turn.Content, turn.TokensUsed,
		turn.Timestamp.UTC().Format(time.RFC3339Nano),
	); err != nil {
		return fmt.Errorf("insert turn: %w", err)
	}

	// FIFO eviction: keep only the newest retention rows for this key.
	if _, err := tx.ExecContext(ctx, `
		DELETE FROM conversation_turns
		WHERE agent_id = ? AND user_id = ? AND id NOT IN (
			SELECT id FROM conversation_turns
			WHERE agent_id = ? AND user_id = ?
			ORDER BY id DESC LIMIT ?
		)`,
		key.AgentID, key.UserID, key.AgentID, key.UserID, s.retention,
	); err != nil {
		return fmt.Errorf("trim turns: %w", err)
	}

	return tx.Commit()
}

// Recent implements domain.ConversationStore. Turns come back oldest first.
func (s *SQLiteStore) Recent(ctx context.Context, key domain.ConversationKey, limit int) ([]domain.Turn, error) {
	if limit <= 0 || limit > s.retention {
		limit = s.retention
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT role, content, tokens_used, created_at
		FROM conversation_turns
		WHERE agent_id = ? AND user_id = ?
		ORDER BY id DESC LIMIT ?`,
		key.AgentID, key.UserID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query turns: %w", err)
	}
	defer rows.Close()

	var turns []domain.Turn
	for rows.Next() {
		var turn domain.Turn
		var createdAt string
		if err := rows.Scan(&turn.Role, &turn.Content, &turn.TokensUsed, &createdAt); err != nil {
			return nil, fmt.Errorf("scan turn: %w", err)
		}
		if ts, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
			turn.Timestamp = ts
		}
		turns = append(turns, turn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate turns: %w", err)
	}

	// The query walks newest-first for the LIMIT; flip to oldest-first.
	for i, j := 0, len(turns)-1; i < j; i, j = i+1, j-1 {
		turns[i], turns[j] = turns[j], turns[i]
	}
	return turns, nil
}

// Clear implements domain.ConversationStore.
func (s *SQLiteStore) Clear(ctx context.Context, key domain.ConversationKey) error {
	if _, err := s.db.ExecContext(ctx,
		"DELETE FROM conversation_turns WHERE agent_id = ? AND user_id = ?",
		key.AgentID, key.UserID,
	); err != nil {
		return fmt.Errorf("clear conversation: %w", err)
	}
	return nil
}

var _ domain.ConversationStore = (*SQLiteStore)(nil)
