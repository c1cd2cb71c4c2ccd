package handler // handler implements the HTTP surface of the portal

import (
	"context"
	"mime/multipart"

	"github.com/sarmin881340/taka-portal/internal/model"
)

// The handlers depend on small store interfaces rather than the concrete
// repository types so the request flows can be exercised in tests without a
// database.  The repository package satisfies all of them.

// UserStore is the member collection.
type UserStore interface {
	Create(ctx context.Context, name, phone, email, password string, cost int) (model.User, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByID(ctx context.Context, id uint64) (model.User, error)
	GetByMemberID(ctx context.Context, memberID string) (model.User, error)
	ListAll(ctx context.Context) ([]model.User, error)
	DeleteCascade(ctx context.Context, id uint64) error
}

// PaymentStore is the payment-claim collection plus its moderation
// transitions.
type PaymentStore interface {
	Create(ctx context.Context, userID uint64, senderNumber string, amount int64) (model.Payment, error)
	GetByID(ctx context.Context, id uint64) (model.Payment, error)
	ListByUser(ctx context.Context, userID uint64) ([]model.Payment, error)
	ListAll(ctx context.Context) ([]model.Payment, error)
	Approve(ctx context.Context, paymentID, adminID uint64) error
	Reject(ctx context.Context, paymentID, adminID uint64) error
}

// ReviewStore is the refund-request collection.
type ReviewStore interface {
	Create(ctx context.Context, userID uint64, returnNumber, message string, screenshot *string) (model.Review, error)
	ListAll(ctx context.Context) ([]model.Review, error)
}

// MessageStore is the direct-message collection.
type MessageStore interface {
	Create(ctx context.Context, senderID, receiverID uint64, body string) (model.Message, error)
	Conversation(ctx context.Context, a, b uint64) ([]model.Message, error)
	ListAll(ctx context.Context) ([]model.Message, error)
}

// AdminStore is the moderator collection.
type AdminStore interface {
	GetByEmail(ctx context.Context, email string) (model.Admin, error)
	GetByID(ctx context.Context, id uint64) (model.Admin, error)
}

// ScreenshotStore persists uploaded review screenshots.
type ScreenshotStore interface {
	SaveScreenshot(fh *multipart.FileHeader) (string, error)
}
