package appointment

import (
	"time"

	"github.com/google/uuid"

	"github.com/hackgods/docspot/internal/account"
	"github.com/hackgods/docspot/internal/doctor"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

// Terminal reports whether no further transition is allowed from s.
func (s Status) Terminal() bool {
	return s == StatusRejected || s == StatusCancelled || s == StatusCompleted
}

// Appointment is one reservation. DoctorInfo and UserInfo are copies taken
// at booking time and are never refreshed.
type Appointment struct {
	ID           uuid.UUID       `json:"id"`
	UserID       uuid.UUID       `json:"userId"`
	DoctorID     uuid.UUID       `json:"doctorId"`
	DoctorInfo   doctor.Profile  `json:"doctorInfo"`
	UserInfo     account.Contact `json:"userInfo"`
	Date         string          `json:"date"`
	Time         string          `json:"time"`
	Status       Status          `json:"status"`
	Document     string          `json:"documents"`
	Prescription string          `json:"prescription"`
	VisitSummary string          `json:"visitSummary"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

type BookingRequest struct {
	PatientID uuid.UUID
	DoctorID  uuid.UUID
	Date      string // DD-MM-YYYY
	Time      string // h:mm am
	Document  string // stored upload path, may be empty
}
