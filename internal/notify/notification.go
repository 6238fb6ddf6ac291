// Package notify appends in-app notifications to accounts and sends email as
// a best-effort side channel. Nothing here ever fails the operation that
// triggered it.
package notify

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	TypeNewAppointmentRequest = "new-appointment-request"
	TypeAppointmentStatus     = "appointment-status-changed"
	TypeAppointmentCompleted  = "appointment-completed"
	TypeAppointmentCancelled  = "appointment-cancelled"
	TypeNewDoctorRequest      = "new-doctor-request"
	TypeDoctorStatusChanged   = "doctor-status-changed"
	TypeAccountBlockChanged   = "account-block-changed"
)

// Notification is one entry of an account's unseen or seen list.
type Notification struct {
	Type        string            `json:"type"`
	Message     string            `json:"message"`
	OnClickPath string            `json:"onClickPath,omitempty"`
	Data        map[string]string `json:"data,omitempty"`
	CreatedAt   time.Time         `json:"createdAt"`
}

// Emitter is what the domain services depend on. Every method returns
// immediately; delivery happens in the background.
type Emitter interface {
	NotifyAccount(accountID uuid.UUID, n Notification)
	NotifyAdmins(n Notification)
	Email(to, subject, body string)
}

// Store persists notification entries with single-statement appends.
type Store interface {
	AppendUnseen(ctx context.Context, accountID uuid.UUID, n Notification) error
	AppendUnseenToAdmins(ctx context.Context, n Notification) (int64, error)
}

// Mailer sends one plain-text email.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// Discard drops every notification and email. Offline tools that reuse the
// services run with it.
type Discard struct{}

func (Discard) NotifyAccount(uuid.UUID, Notification) {}
func (Discard) NotifyAdmins(Notification)             {}
func (Discard) Email(string, string, string)          {}
