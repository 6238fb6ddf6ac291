package doctor

import (
	"time"

	"github.com/google/uuid"

	"github.com/hackgods/docspot/internal/availability"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
	StatusBlocked  Status = "blocked"
)

// Profile is a practitioner profile. UserID points back at the account that
// applied for it.
type Profile struct {
	ID             uuid.UUID `json:"id"`
	UserID         uuid.UUID `json:"userId"`
	FirstName      string    `json:"firstName"`
	LastName       string    `json:"lastName"`
	Phone          string    `json:"phoneNumber"`
	Website        string    `json:"website"`
	Address        string    `json:"address"`
	Specialization string    `json:"specialization"`
	Experience     string    `json:"experience"`
	Fee            float64   `json:"feePerConsultation"`
	Timings        [2]string `json:"timings"`
	Status         Status    `json:"status"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func (p *Profile) WorkingHours() availability.WorkingHours {
	return availability.WorkingHours{Open: p.Timings[0], Close: p.Timings[1]}
}

// Bookable reports whether patients may reserve slots with this doctor.
func (p *Profile) Bookable() bool {
	return p.Status == StatusApproved
}

// Listing is a profile with the owning account's email, as shown to admins.
type Listing struct {
	Profile
	Email string `json:"email"`
}

// Application carries the editable fields of a profile.
type Application struct {
	FirstName      string
	LastName       string
	Phone          string
	Website        string
	Address        string
	Specialization string
	Experience     string
	Fee            float64
	Timings        [2]string
}

type Filter struct {
	Search         string
	Specialization string
}
