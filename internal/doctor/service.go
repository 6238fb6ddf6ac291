package doctor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/hackgods/docspot/internal/apperr"
	"github.com/hackgods/docspot/internal/notify"
)

var (
	ErrDoctorNotFound = apperr.NotFound("Doctor not found")
	ErrAlreadyApplied = apperr.BusinessRule("You have already applied (Status: Pending)")
	ErrAlreadyDoctor  = apperr.BusinessRule("You are already a doctor")
	ErrDoctorBlocked  = apperr.BusinessRule("Your doctor account is blocked")
	ErrInvalidStatus  = apperr.Validation("Invalid doctor status")
)

const (
	MsgApplied   = "Doctor account applied successfully"
	MsgReapplied = "Doctor account RE-APPLIED successfully"
)

type Service struct {
	repo     Repository
	notifier notify.Emitter
}

func NewService(repo Repository, notifier notify.Emitter) *Service {
	return &Service{repo: repo, notifier: notifier}
}

func invalidTimings(err error) error {
	return &apperr.Error{
		Kind:    apperr.KindValidation,
		Message: "Timings must be two valid times with opening before closing",
		Err:     err,
	}
}

func clean(app Application) Application {
	app.FirstName = strings.TrimSpace(app.FirstName)
	app.LastName = strings.TrimSpace(app.LastName)
	app.Specialization = strings.TrimSpace(app.Specialization)
	app.Timings[0] = strings.TrimSpace(app.Timings[0])
	app.Timings[1] = strings.TrimSpace(app.Timings[1])
	return app
}

func validate(app Application) error {
	p := Profile{Timings: app.Timings}
	if err := p.WorkingHours().Validate(); err != nil {
		return invalidTimings(err)
	}
	if app.Fee < 0 {
		return apperr.Validation("Fee cannot be negative")
	}
	return nil
}

// Apply submits a practitioner application. A rejected applicant may apply
// again; the existing record is overwritten and returns to pending. The
// returned message tells the two successful paths apart.
func (s *Service) Apply(ctx context.Context, userID uuid.UUID, app Application) (string, *Profile, error) {
	app = clean(app)
	if err := validate(app); err != nil {
		return "", nil, err
	}

	existing, err := s.repo.GetByUserID(ctx, userID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return "", nil, apperr.Persistence("load doctor profile", err)
	}

	var (
		profile *Profile
		msg     string
	)

	switch {
	case existing == nil:
		profile, err = s.repo.Create(ctx, userID, app)
		if errors.Is(err, ErrAlreadyExists) {
			return "", nil, ErrAlreadyApplied
		}
		if err != nil {
			return "", nil, apperr.Persistence("create doctor profile", err)
		}
		msg = MsgApplied

	case existing.Status == StatusPending:
		return "", nil, ErrAlreadyApplied
	case existing.Status == StatusApproved:
		return "", nil, ErrAlreadyDoctor
	case existing.Status == StatusBlocked:
		return "", nil, ErrDoctorBlocked

	default:
		profile, err = s.repo.Reapply(ctx, existing.ID, app)
		if errors.Is(err, ErrNotFound) {
			// another request moved it out of rejected first
			return "", nil, ErrAlreadyApplied
		}
		if err != nil {
			return "", nil, apperr.Persistence("reapply doctor profile", err)
		}
		msg = MsgReapplied
	}

	s.notifier.NotifyAdmins(notify.Notification{
		Type:        notify.TypeNewDoctorRequest,
		Message:     fmt.Sprintf("%s %s has applied for a doctor account", app.FirstName, app.LastName),
		OnClickPath: "/admin/doctors",
		Data: map[string]string{
			"name":     app.FirstName,
			"doctorId": profile.ID.String(),
		},
	})

	return msg, profile, nil
}

// UpdateProfile edits a doctor's own profile. Status is untouched and
// appointments booked earlier keep their snapshot.
func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, app Application) (*Profile, error) {
	app = clean(app)
	if err := validate(app); err != nil {
		return nil, err
	}

	p, err := s.repo.Update(ctx, userID, app)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrDoctorNotFound
	}
	if err != nil {
		return nil, apperr.Persistence("update doctor profile", err)
	}
	return p, nil
}

func (s *Service) GetByUserID(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	p, err := s.repo.GetByUserID(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrDoctorNotFound
	}
	if err != nil {
		return nil, apperr.Persistence("load doctor profile", err)
	}
	return p, nil
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*Profile, error) {
	p, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrDoctorNotFound
	}
	if err != nil {
		return nil, apperr.Persistence("load doctor profile", err)
	}
	return p, nil
}

// ListApproved returns bookable doctors. Search matches first name, last
// name or address; specialization "all" or empty means no filter.
func (s *Service) ListApproved(ctx context.Context, f Filter) ([]Profile, error) {
	profiles, err := s.repo.ListApproved(ctx, f)
	if err != nil {
		return nil, apperr.Persistence("list doctors", err)
	}
	return profiles, nil
}

func (s *Service) ListAll(ctx context.Context) ([]Listing, error) {
	listings, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, apperr.Persistence("list doctors", err)
	}
	return listings, nil
}

func ParseStatus(s string) (Status, bool) {
	switch st := Status(strings.ToLower(strings.TrimSpace(s))); st {
	case StatusPending, StatusApproved, StatusRejected, StatusBlocked:
		return st, true
	default:
		return "", false
	}
}

// ChangeStatus is the admin decision on a profile. The owner's is_doctor
// flag follows: true exactly when the new status is approved.
func (s *Service) ChangeStatus(ctx context.Context, id uuid.UUID, status string) (*Listing, error) {
	st, ok := ParseStatus(status)
	if !ok {
		return nil, ErrInvalidStatus
	}

	n := notify.Notification{
		Type:        notify.TypeDoctorStatusChanged,
		Message:     "Your doctor account has been " + string(st),
		OnClickPath: "/notification",
	}

	listing, err := s.repo.ChangeStatus(ctx, id, st, n)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrDoctorNotFound
	}
	if err != nil {
		return nil, apperr.Persistence("change doctor status", err)
	}

	s.notifier.Email(listing.Email, "DocSpot Doctor Application", n.Message+".")
	return listing, nil
}
