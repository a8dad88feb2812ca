package store

import (
	"context"
	"time"
)

// Message is a contact form submission.
type Message struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
	Delivered bool      `json:"delivered"`
}

// SaveMessage stores a submission and returns its id.
func (s *Store) SaveMessage(ctx context.Context, m Message) (int64, error) {
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO messages (name, email, body, created_at, delivered)
		VALUES (?, ?, ?, ?, ?)
	`, m.Name, m.Email, m.Body, m.CreatedAt.UTC(), m.Delivered)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// MarkDelivered flags a message as sent by mail.
func (s *Store) MarkDelivered(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `UPDATE messages SET delivered = 1 WHERE id = ?`, id)
	return err
}

// Messages returns the newest submissions first.
func (s *Store) Messages(ctx context.Context, limit int) ([]Message, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, email, body, created_at, delivered
		FROM messages
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Body, &m.CreatedAt, &m.Delivered); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
