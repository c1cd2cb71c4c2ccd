// Package queue defines message payloads exchanged over the message broker.
package queue

// PaymentReviewedEvent is published when a payment claim reaches a terminal
// state.  It carries enough information for downstream consumers to log,
// notify, or feed analytics without querying the primary database.
type PaymentReviewedEvent struct {
	PaymentID    uint64 `json:"payment_id"`
	UserID       uint64 `json:"user_id"`
	MemberID     string `json:"member_id"`
	Amount       int64  `json:"amount"`
	Status       string `json:"status"` // approved | rejected
	ReviewedBy   uint64 `json:"reviewed_by"`
	SenderNumber string `json:"sender_number"`
	ReviewedAt   string `json:"reviewed_at"`
}
