package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/sarmin881340/taka-portal/internal/model"
	"github.com/sarmin881340/taka-portal/internal/utils"
)

// UserRepo provides data access to the `users` table.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userCols = "id,member_id,name,phone,email,password_hash,balance,created_at"

// Create registers a new member.  The email is normalized (trimmed, lower
// cased) before the uniqueness check so two spellings of the same address
// cannot coexist.  The member id is derived from the freshly assigned row id
// inside the same transaction.
func (r *UserRepo) Create(ctx context.Context, name, phone, email, password string, cost int) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return model.User{}, err
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return model.User{}, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		"INSERT INTO users (name, phone, email, password_hash) VALUES (?,?,?,?)",
		name, phone, email, hash)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return model.User{}, ErrEmailExists
		}
		return model.User{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.User{}, err
	}

	memberID := utils.NewMemberID(uint64(id), time.Now().UTC())
	if _, err := tx.ExecContext(ctx,
		"UPDATE users SET member_id=? WHERE id=?", memberID, id); err != nil {
		return model.User{}, err
	}
	if err := tx.Commit(); err != nil {
		return model.User{}, err
	}
	return r.GetByID(ctx, uint64(id))
}

// GetByEmail fetches a user by normalized email.  A missing row maps to
// ErrNotFound so callers never have to know about sql.ErrNoRows.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM users WHERE email=? LIMIT 1", email))
}

// GetByID fetches a user by primary key.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM users WHERE id=? LIMIT 1", id))
}

// GetByMemberID resolves the external member identifier used for message
// partner lookup.
func (r *UserRepo) GetByMemberID(ctx context.Context, memberID string) (model.User, error) {
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM users WHERE member_id=? LIMIT 1",
		strings.TrimSpace(memberID)))
}

// ListAll returns every member, newest first, for the admin views.
func (r *UserRepo) ListAll(ctx context.Context) ([]model.User, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+userCols+" FROM users ORDER BY id DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.User
	for rows.Next() {
		var u model.User
		var memberID sql.NullString
		if err := rows.Scan(&u.ID, &memberID, &u.Name, &u.Phone, &u.Email,
			&u.PasswordHash, &u.Balance, &u.CreatedAt); err != nil {
			return nil, err
		}
		u.MemberID = memberID.String
		out = append(out, u)
	}
	return out, rows.Err()
}

// DeleteCascade removes a member together with every record referencing
// them: payments, reviews, and messages in either direction.  Everything
// happens in one transaction so a crash cannot leave orphaned rows behind.
func (r *UserRepo) DeleteCascade(ctx context.Context, id uint64) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM payments WHERE user_id=?", id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM reviews WHERE user_id=?", id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		"DELETE FROM messages WHERE sender_id=? OR receiver_id=?", id, id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM users WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return tx.Commit()
}

func (r *UserRepo) scanOne(row *sql.Row) (model.User, error) {
	var u model.User
	var memberID sql.NullString
	err := row.Scan(&u.ID, &memberID, &u.Name, &u.Phone, &u.Email,
		&u.PasswordHash, &u.Balance, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return model.User{}, ErrNotFound
	}
	if err != nil {
		return model.User{}, err
	}
	u.MemberID = memberID.String
	return u, nil
}
