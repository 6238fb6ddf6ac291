package account

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/hackgods/docspot/internal/notify"
)

var (
	ErrNotFound   = errors.New("account not found")
	ErrEmailTaken = errors.New("email already registered")
)

// Repository contains all DB interactions needed by the service.
type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Account, error)
	GetByEmail(ctx context.Context, email string) (*Account, error)
	List(ctx context.Context) ([]Account, error)
	AdminExists(ctx context.Context) (bool, error)

	Create(ctx context.Context, a Account) (*Account, error)
	// ResetUnverified overwrites a pending registration with fresh details.
	ResetUnverified(ctx context.Context, id uuid.UUID, name, phone, passwordHash, otp string) error
	// MarkVerified clears the OTP and flags the account verified, only when
	// the stored OTP still equals otp.
	MarkVerified(ctx context.Context, id uuid.UUID, otp string) (*Account, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, name, phone string) (*Account, error)

	MarkAllNotificationsSeen(ctx context.Context, id uuid.UUID) (*Account, error)
	DeleteAllNotifications(ctx context.Context, id uuid.UUID) (*Account, error)

	// SetBlocked updates the flag and appends n in one statement.
	SetBlocked(ctx context.Context, id uuid.UUID, blocked bool, n notify.Notification) (*Account, error)
}
