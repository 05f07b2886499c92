package memory

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS interactions (
	seq            INTEGER PRIMARY KEY AUTOINCREMENT,
	id             TEXT NOT NULL UNIQUE,
	user_id        TEXT NOT NULL,
	ts             INTEGER NOT NULL,
	user_input     TEXT NOT NULL,
	agent_response TEXT NOT NULL,
	agent_id       TEXT NOT NULL,
	actions        TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_interactions_user ON interactions(user_id, seq);
`

// SQLiteStore persists interaction history in a SQLite database, keeping
// the most recent limit records per user.
type SQLiteStore struct {
	db    *sql.DB
	limit int
}

// OpenSQLite opens (creating if needed) the database at path.
func OpenSQLite(ctx context.Context, path string, limit int) (*SQLiteStore, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create history dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init history schema: %w", err)
	}
	return &SQLiteStore{db: db, limit: limit}, nil
}

func (s *SQLiteStore) Append(ctx context.Context, r Record) error {
	r = prepare(r)
	actions, err := json.Marshal(r.Actions)
	if err != nil {
		return fmt.Errorf("encode actions: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO interactions (id, user_id, ts, user_input, agent_response, agent_id, actions)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.UserID, r.Timestamp.UnixNano(), r.UserInput, r.AgentResponse, r.AgentID, string(actions),
	); err != nil {
		return fmt.Errorf("insert interaction: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM interactions
		 WHERE user_id = ? AND seq NOT IN (
		   SELECT seq FROM interactions WHERE user_id = ? ORDER BY seq DESC LIMIT ?
		 )`,
		r.UserID, r.UserID, s.limit,
	); err != nil {
		return fmt.Errorf("trim history: %w", err)
	}

	return tx.Commit()
}

func (s *SQLiteStore) Recent(ctx context.Context, userID string, n int) ([]Record, error) {
	if n <= 0 {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, ts, user_input, agent_response, agent_id, actions
		 FROM interactions WHERE user_id = ? ORDER BY seq DESC LIMIT ?`,
		userID, n,
	)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var (
			r       Record
			ts      int64
			actions string
		)
		if err := rows.Scan(&r.ID, &r.UserID, &ts, &r.UserInput, &r.AgentResponse, &r.AgentID, &actions); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		r.Timestamp = time.Unix(0, ts).UTC()
		if err := json.Unmarshal([]byte(actions), &r.Actions); err != nil {
			return nil, fmt.Errorf("decode actions: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	slices.Reverse(out)
	return out, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
