package appointment

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("appointment not found")

// Repository contains all DB interactions needed by the service.
type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)

	// FindActiveForSlot returns pending or approved appointments for the
	// exact doctor, date and time.
	FindActiveForSlot(ctx context.Context, doctorID uuid.UUID, date, time string) ([]Appointment, error)

	Create(ctx context.Context, a Appointment) (*Appointment, error)

	// Transition moves the appointment to `to` only if its current status is
	// one of from. ErrNotFound means no row matched.
	Transition(ctx context.Context, id uuid.UUID, from []Status, to Status) (*Appointment, error)
	// Complete moves an approved appointment to completed with the visit notes.
	Complete(ctx context.Context, id uuid.UUID, prescription, visitSummary string) (*Appointment, error)

	// Newest first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Appointment, error)
	ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]Appointment, error)
}
