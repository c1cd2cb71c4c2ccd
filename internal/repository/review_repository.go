package repository

import (
	"context"
	"database/sql"

	"github.com/sarmin881340/taka-portal/internal/model"
)

// ReviewRepo provides data access to the `reviews` table.  Reviews are
// created pending and never transitioned; there is no moderation workflow
// for them.
type ReviewRepo struct{ DB *sql.DB }

func NewReviewRepo(db *sql.DB) *ReviewRepo { return &ReviewRepo{DB: db} }

const reviewCols = "id,user_id,return_number,message,screenshot,status,submitted_at"

// Create stores a refund request.  screenshot may be nil when the member did
// not attach one.
func (r *ReviewRepo) Create(ctx context.Context, userID uint64, returnNumber, message string, screenshot *string) (model.Review, error) {
	var shot sql.NullString
	if screenshot != nil {
		shot = sql.NullString{String: *screenshot, Valid: true}
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO reviews (user_id, return_number, message, screenshot, status) VALUES (?,?,?,?,?)",
		userID, returnNumber, message, shot, model.ReviewPending)
	if err != nil {
		return model.Review{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Review{}, err
	}
	var rev model.Review
	err = r.DB.QueryRowContext(ctx,
		"SELECT "+reviewCols+" FROM reviews WHERE id=? LIMIT 1", id).
		Scan(&rev.ID, &rev.UserID, &rev.ReturnNumber, &rev.Message, &shot, &rev.Status, &rev.SubmittedAt)
	if err != nil {
		return model.Review{}, err
	}
	if shot.Valid {
		s := shot.String
		rev.Screenshot = &s
	}
	return rev, nil
}

// ListAll returns every review for the admin panel, newest first.
func (r *ReviewRepo) ListAll(ctx context.Context) ([]model.Review, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+reviewCols+" FROM reviews ORDER BY id DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Review
	for rows.Next() {
		var rev model.Review
		var shot sql.NullString
		if err := rows.Scan(&rev.ID, &rev.UserID, &rev.ReturnNumber, &rev.Message,
			&shot, &rev.Status, &rev.SubmittedAt); err != nil {
			return nil, err
		}
		if shot.Valid {
			s := shot.String
			rev.Screenshot = &s
		}
		out = append(out, rev)
	}
	return out, rows.Err()
}
