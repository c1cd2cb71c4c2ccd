package model

import "time"

// ReviewPending is the only status a refund review ever has.  There is no
// moderation workflow for reviews; the column exists so one could be added
// without a schema change.
const ReviewPending = "pending"

// Review is a refund request: the number to return money to, a free-text
// explanation and an optional screenshot of the original transfer.
type Review struct {
	ID           uint64    // reviews.id
	UserID       uint64    // reviews.user_id
	ReturnNumber string    // reviews.return_number
	Message      string    // reviews.message
	Screenshot   *string   // reviews.screenshot (nullable upload path)
	Status       string    // reviews.status
	SubmittedAt  time.Time // reviews.submitted_at
}
