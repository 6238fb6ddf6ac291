package account

import (
	"time"

	"github.com/google/uuid"

	"github.com/hackgods/docspot/internal/notify"
)

// Account is a registered user. Patients, doctors and administrators are all
// accounts; IsDoctor and IsAdmin tell them apart.
type Account struct {
	ID                  uuid.UUID             `json:"id"`
	Name                string                `json:"name"`
	Email               string                `json:"email"`
	PasswordHash        string                `json:"-"`
	Phone               string                `json:"phone"`
	IsAdmin             bool                  `json:"isAdmin"`
	IsDoctor            bool                  `json:"isDoctor"`
	IsBlocked           bool                  `json:"isBlocked"`
	IsVerified          bool                  `json:"isVerified"`
	OTP                 *string               `json:"-"`
	UnseenNotifications []notify.Notification `json:"unseenNotifications"`
	SeenNotifications   []notify.Notification `json:"seenNotifications"`
	// DoctorStatus is the status of the account's practitioner profile, if any.
	DoctorStatus string    `json:"doctorStatus,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Contact is the patient data frozen onto an appointment at booking time.
type Contact struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Phone string    `json:"phone"`
}

func (a *Account) Contact() Contact {
	return Contact{ID: a.ID, Name: a.Name, Email: a.Email, Phone: a.Phone}
}

type Registration struct {
	Name     string
	Email    string
	Password string
	Phone    string
}
