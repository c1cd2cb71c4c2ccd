package repository

import (
	"context"
	"database/sql"

	"github.com/sarmin881340/taka-portal/internal/model"
)

// MessageRepo provides data access to the `messages` table.
type MessageRepo struct{ DB *sql.DB }

func NewMessageRepo(db *sql.DB) *MessageRepo { return &MessageRepo{DB: db} }

const messageCols = "id,sender_id,receiver_id,body,sent_at"

// Create stores a direct message.  Callers are expected to have resolved and
// validated both endpoints; the body must already be normalized.
func (r *MessageRepo) Create(ctx context.Context, senderID, receiverID uint64, body string) (model.Message, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO messages (sender_id, receiver_id, body) VALUES (?,?,?)",
		senderID, receiverID, body)
	if err != nil {
		return model.Message{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Message{}, err
	}
	var m model.Message
	err = r.DB.QueryRowContext(ctx,
		"SELECT "+messageCols+" FROM messages WHERE id=? LIMIT 1", id).
		Scan(&m.ID, &m.SenderID, &m.ReceiverID, &m.Body, &m.SentAt)
	return m, err
}

// Conversation returns every message exchanged between the two members, in
// either direction, ordered ascending by send time (id breaks ties so the
// order is stable within one second).
func (r *MessageRepo) Conversation(ctx context.Context, a, b uint64) ([]model.Message, error) {
	return r.list(ctx,
		"SELECT "+messageCols+" FROM messages WHERE (sender_id=? AND receiver_id=?) OR (sender_id=? AND receiver_id=?) ORDER BY sent_at ASC, id ASC",
		a, b, b, a)
}

// ListAll returns every message for the admin panel.
func (r *MessageRepo) ListAll(ctx context.Context) ([]model.Message, error) {
	return r.list(ctx, "SELECT "+messageCols+" FROM messages ORDER BY id DESC")
}

func (r *MessageRepo) list(ctx context.Context, query string, args ...any) ([]model.Message, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Message
	for rows.Next() {
		var m model.Message
		if err := rows.Scan(&m.ID, &m.SenderID, &m.ReceiverID, &m.Body, &m.SentAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
