package doctor

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/hackgods/docspot/internal/notify"
)

var (
	ErrNotFound      = errors.New("doctor profile not found")
	ErrAlreadyExists = errors.New("doctor profile already exists")
)

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Profile, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*Profile, error)
	ListApproved(ctx context.Context, f Filter) ([]Profile, error)
	ListAll(ctx context.Context) ([]Listing, error)

	Create(ctx context.Context, userID uuid.UUID, app Application) (*Profile, error)
	// Reapply overwrites a rejected profile and resets it to pending. It
	// returns ErrNotFound when the profile is no longer rejected.
	Reapply(ctx context.Context, id uuid.UUID, app Application) (*Profile, error)
	Update(ctx context.Context, userID uuid.UUID, app Application) (*Profile, error)

	// ChangeStatus sets the profile status, the owner's is_doctor flag and
	// appends n to the owner's notifications in one statement.
	ChangeStatus(ctx context.Context, id uuid.UUID, status Status, n notify.Notification) (*Listing, error)
}
