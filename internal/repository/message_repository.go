package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/iliyamo/contact-desk/internal/model"
)

// MessageRepo persists contact form submissions.
type MessageRepo struct{ DB *sql.DB }

func NewMessageRepo(db *sql.DB) *MessageRepo { return &MessageRepo{DB: db} }

// Create inserts m and returns the assigned ID.  m.ID is ignored.
func (r *MessageRepo) Create(ctx context.Context, m model.Message) (int64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO messages (name, email, body) VALUES (?, ?, ?)",
		m.Name, m.Email, m.Body)
	if err != nil {
		return 0, fmt.Errorf("insert message: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert message: %w", err)
	}
	return id, nil
}

// ListNewestFirst returns every message ordered by descending ID.
func (r *MessageRepo) ListNewestFirst(ctx context.Context) ([]model.Message, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, name, email, body FROM messages ORDER BY id DESC")
	if err != nil {
		return nil, fmt.Errorf("select messages: %w", err)
	}
	defer rows.Close()

	out := make([]model.Message, 0)
	for rows.Next() {
		var m model.Message
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Body); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate messages: %w", err)
	}
	return out, nil
}
