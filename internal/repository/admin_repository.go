package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/sarmin881340/taka-portal/internal/model"
	"github.com/sarmin881340/taka-portal/internal/utils"
)

// AdminRepo provides data access to the `admins` table.
type AdminRepo struct{ DB *sql.DB }

func NewAdminRepo(db *sql.DB) *AdminRepo { return &AdminRepo{DB: db} }

// GetByEmail fetches an admin by normalized email.
func (r *AdminRepo) GetByEmail(ctx context.Context, email string) (model.Admin, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var a model.Admin
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,email,password_hash,name,created_at FROM admins WHERE email=? LIMIT 1",
		email).Scan(&a.ID, &a.Email, &a.PasswordHash, &a.Name, &a.CreatedAt)
	if err == sql.ErrNoRows {
		return model.Admin{}, ErrNotFound
	}
	return a, err
}

// GetByID fetches an admin by primary key.
func (r *AdminRepo) GetByID(ctx context.Context, id uint64) (model.Admin, error) {
	var a model.Admin
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,email,password_hash,name,created_at FROM admins WHERE id=? LIMIT 1",
		id).Scan(&a.ID, &a.Email, &a.PasswordHash, &a.Name, &a.CreatedAt)
	if err == sql.ErrNoRows {
		return model.Admin{}, ErrNotFound
	}
	return a, err
}

// Create inserts a moderator account.
func (r *AdminRepo) Create(ctx context.Context, email, password, name string, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO admins (email, password_hash, name) VALUES (?,?,?)",
		email, hash, name)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	return uint64(id), err
}

// EnsureDefault seeds the configured moderator account when the admins table
// is empty, so a fresh deployment always has a way into the panel.
func (r *AdminRepo) EnsureDefault(ctx context.Context, email, password, name string, cost int) error {
	var n int
	if err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM admins").Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	_, err := r.Create(ctx, email, password, name, cost)
	return err
}
