package model

import (
	"strings"
	"time"
)

// Message is a direct message between two members.  Both endpoints must be
// valid users at creation time; deleting either user cascades to the message.
type Message struct {
	ID         uint64    // messages.id
	SenderID   uint64    // messages.sender_id
	ReceiverID uint64    // messages.receiver_id
	Body       string    // messages.body
	SentAt     time.Time // messages.sent_at
}

// NormalizeBody trims a message body.  The empty result means the message
// must be rejected rather than stored.
func NormalizeBody(body string) string {
	return strings.TrimSpace(body)
}
