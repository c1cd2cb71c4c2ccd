package repository

import (
	"context"
	"database/sql"

	"github.com/sarmin881340/taka-portal/internal/model"
)

// PaymentRepo provides data access to the `payments` table and owns the
// moderation transitions.  The pending -> approved transition credits the
// member balance; both the guard and the credit live in one transaction so a
// concurrent double approval cannot credit twice.
type PaymentRepo struct{ DB *sql.DB }

func NewPaymentRepo(db *sql.DB) *PaymentRepo { return &PaymentRepo{DB: db} }

const paymentCols = "id,user_id,sender_number,amount,receive_number,status,submitted_at,reviewed_at,reviewed_by"

// Create records a pending claim.  Submissions are always pending; nothing
// about the claim is verified here beyond the parsed amount.
func (r *PaymentRepo) Create(ctx context.Context, userID uint64, senderNumber string, amount int64) (model.Payment, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO payments (user_id, sender_number, amount, receive_number, status) VALUES (?,?,?,?,?)",
		userID, senderNumber, amount, model.ReceiveNumber, model.PaymentPending)
	if err != nil {
		return model.Payment{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Payment{}, err
	}
	return r.GetByID(ctx, uint64(id))
}

// GetByID fetches a payment by primary key.
func (r *PaymentRepo) GetByID(ctx context.Context, id uint64) (model.Payment, error) {
	return scanPayment(r.DB.QueryRowContext(ctx,
		"SELECT "+paymentCols+" FROM payments WHERE id=? LIMIT 1", id))
}

// ListByUser returns a member's own claims, newest first.
func (r *PaymentRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Payment, error) {
	return r.list(ctx, "SELECT "+paymentCols+" FROM payments WHERE user_id=? ORDER BY id DESC", userID)
}

// ListAll returns every claim for the admin panel, newest first.
func (r *PaymentRepo) ListAll(ctx context.Context) ([]model.Payment, error) {
	return r.list(ctx, "SELECT "+paymentCols+" FROM payments ORDER BY id DESC")
}

// Approve transitions a pending payment to approved and credits the owning
// member's balance with the claimed amount.  Repeating the call returns
// model.ErrNotPending and leaves both records untouched.
func (r *PaymentRepo) Approve(ctx context.Context, paymentID, adminID uint64) error {
	return r.review(ctx, paymentID, adminID, model.PaymentApproved)
}

// Reject transitions a pending payment to rejected.  No balance side effect.
func (r *PaymentRepo) Reject(ctx context.Context, paymentID, adminID uint64) error {
	return r.review(ctx, paymentID, adminID, model.PaymentRejected)
}

func (r *PaymentRepo) review(ctx context.Context, paymentID, adminID uint64, status string) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	// Lock the row so the status check and the transition are atomic.
	var userID uint64
	var amount int64
	var current string
	err = tx.QueryRowContext(ctx,
		"SELECT user_id, amount, status FROM payments WHERE id=? FOR UPDATE",
		paymentID).Scan(&userID, &amount, &current)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if current != model.PaymentPending {
		return model.ErrNotPending
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE payments SET status=?, reviewed_at=UTC_TIMESTAMP(), reviewed_by=? WHERE id=? AND status=?",
		status, adminID, paymentID, model.PaymentPending); err != nil {
		return err
	}
	if status == model.PaymentApproved {
		if _, err := tx.ExecContext(ctx,
			"UPDATE users SET balance = balance + ? WHERE id=?", amount, userID); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *PaymentRepo) list(ctx context.Context, query string, args ...any) ([]model.Payment, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Payment
	for rows.Next() {
		p, err := scanPaymentRows(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanPayment(row *sql.Row) (model.Payment, error) {
	var p model.Payment
	var reviewedAt sql.NullTime
	var reviewedBy sql.NullInt64
	err := row.Scan(&p.ID, &p.UserID, &p.SenderNumber, &p.Amount, &p.ReceiveNumber,
		&p.Status, &p.SubmittedAt, &reviewedAt, &reviewedBy)
	if err == sql.ErrNoRows {
		return model.Payment{}, ErrNotFound
	}
	if err != nil {
		return model.Payment{}, err
	}
	fillReviewed(&p, reviewedAt, reviewedBy)
	return p, nil
}

func scanPaymentRows(rows *sql.Rows) (model.Payment, error) {
	var p model.Payment
	var reviewedAt sql.NullTime
	var reviewedBy sql.NullInt64
	if err := rows.Scan(&p.ID, &p.UserID, &p.SenderNumber, &p.Amount, &p.ReceiveNumber,
		&p.Status, &p.SubmittedAt, &reviewedAt, &reviewedBy); err != nil {
		return model.Payment{}, err
	}
	fillReviewed(&p, reviewedAt, reviewedBy)
	return p, nil
}

func fillReviewed(p *model.Payment, at sql.NullTime, by sql.NullInt64) {
	if at.Valid {
		t := at.Time
		p.ReviewedAt = &t
	}
	if by.Valid {
		b := uint64(by.Int64)
		p.ReviewedBy = &b
	}
}
