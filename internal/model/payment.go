package model

import (
	"errors"
	"time"
)

// Payment statuses.  pending is the only non-terminal state; approved and
// rejected are terminal and no further transition is allowed.
const (
	PaymentPending  = "pending"
	PaymentApproved = "approved"
	PaymentRejected = "rejected"
)

// ReceiveNumber is the mobile-money wallet members are instructed to send
// money to.  Every claim records it so the dashboard can display where the
// transfer was expected.
const ReceiveNumber = "01846735445"

// ErrNotPending is returned when a terminal transition is attempted on a
// payment that already left the pending state.
var ErrNotPending = errors.New("payment is not pending")

// Payment is a member's claim that money was sent to the receive number.
// ReviewedAt/ReviewedBy are set exactly once, on the terminal transition.
type Payment struct {
	ID            uint64     // payments.id
	UserID        uint64     // payments.user_id
	SenderNumber  string     // payments.sender_number
	Amount        int64      // payments.amount
	ReceiveNumber string     // payments.receive_number
	Status        string     // payments.status
	SubmittedAt   time.Time  // payments.submitted_at
	ReviewedAt    *time.Time // payments.reviewed_at (nullable)
	ReviewedBy    *uint64    // payments.reviewed_by (nullable admin id)
}

// Review applies a terminal transition to the payment.  status must be
// PaymentApproved or PaymentRejected.  The pending guard makes the transition
// idempotent against double moderation: a second attempt fails with
// ErrNotPending and must leave the record and the member balance untouched.
func (p *Payment) Review(status string, adminID uint64, now time.Time) error {
	if p.Status != PaymentPending {
		return ErrNotPending
	}
	if status != PaymentApproved && status != PaymentRejected {
		return errors.New("invalid payment transition: " + status)
	}
	p.Status = status
	p.ReviewedAt = &now
	p.ReviewedBy = &adminID
	return nil
}
