package appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/hackgods/docspot/internal/account"
	"github.com/hackgods/docspot/internal/apperr"
	"github.com/hackgods/docspot/internal/availability"
	"github.com/hackgods/docspot/internal/doctor"
	"github.com/hackgods/docspot/internal/notify"
	redisclient "github.com/hackgods/docspot/internal/redis"
	"github.com/hackgods/docspot/internal/upload"
)

var (
	ErrDoctorNotFound      = doctor.ErrDoctorNotFound
	ErrPatientNotFound     = account.ErrUserNotFound
	ErrSelfBooking         = apperr.BusinessRule("You cannot book an appointment with yourself")
	ErrDoctorNotBookable   = apperr.BusinessRule("Doctor is not accepting appointments")
	ErrOutsideWorkingHours = apperr.BusinessRule("Time is outside doctor's working hours")
	ErrBookingInPast       = apperr.BusinessRule("Cannot book appointment in the past")
	ErrSlotTaken           = apperr.BusinessRule("Slot already taken")
	ErrSlotBeingBooked     = apperr.BusinessRule("Slot is currently being booked, please retry")
	ErrAppointmentNotFound = apperr.NotFound("Appointment not found")
	ErrCannotCancel        = apperr.BusinessRule("Cannot cancel this appointment")
	ErrInvalidTransition   = apperr.BusinessRule("Appointment status cannot be changed from its current state")
	ErrInvalidStatus       = apperr.Validation("Status must be approved or rejected")
)

// Doctors is the slice of the doctor service bookings need.
type Doctors interface {
	GetByID(ctx context.Context, id uuid.UUID) (*doctor.Profile, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*doctor.Profile, error)
}

type Patients interface {
	Profile(ctx context.Context, id uuid.UUID) (*account.Account, error)
}

type Service struct {
	repo     Repository
	doctors  Doctors
	patients Patients
	locker   redisclient.Locker
	notifier notify.Emitter
	loc      *time.Location
	now      func() time.Time
}

func NewService(repo Repository, doctors Doctors, patients Patients, locker redisclient.Locker, notifier notify.Emitter, loc *time.Location) *Service {
	if loc == nil {
		loc = time.Local
	}
	return &Service{
		repo:     repo,
		doctors:  doctors,
		patients: patients,
		locker:   locker,
		notifier: notifier,
		loc:      loc,
		now:      time.Now,
	}
}

func invalidDateTime(err error) error {
	return &apperr.Error{
		Kind:    apperr.KindValidation,
		Message: `Invalid date or time, expected "DD-MM-YYYY" and "h:mm am"`,
		Err:     err,
	}
}

func (s *Service) loadDoctor(ctx context.Context, id uuid.UUID) (*doctor.Profile, error) {
	doc, err := s.doctors.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, doctor.ErrDoctorNotFound) {
			return nil, ErrDoctorNotFound
		}
		return nil, err
	}
	return doc, nil
}

// admit runs the time checks and returns the canonical date and time of the
// requested slot.
func (s *Service) admit(doc *doctor.Profile, date, timeOfDay string) (availability.Decision, string, string, error) {
	decision, err := availability.Check(doc.WorkingHours(), date, timeOfDay, s.now(), s.loc)
	if err != nil {
		return "", "", "", invalidDateTime(err)
	}
	if !decision.Accepted() {
		return decision, "", "", nil
	}

	day, tod, err := availability.Canonical(date, timeOfDay)
	if err != nil {
		return "", "", "", invalidDateTime(err)
	}
	return decision, day, tod, nil
}

// detectConflict reports RejectedSlotTaken when an active appointment
// already holds the slot.
func (s *Service) detectConflict(ctx context.Context, doctorID uuid.UUID, date, timeOfDay string) (availability.Decision, error) {
	existing, err := s.repo.FindActiveForSlot(ctx, doctorID, date, timeOfDay)
	if err != nil {
		return "", apperr.Persistence("check slot", err)
	}
	if len(existing) > 0 {
		return availability.RejectedSlotTaken, nil
	}
	return availability.Accepted, nil
}

// BookAppointment reserves a slot for a patient. The conflict check and the
// insert run under the slot lock.
func (s *Service) BookAppointment(ctx context.Context, req BookingRequest) (*Appointment, error) {
	doc, err := s.loadDoctor(ctx, req.DoctorID)
	if err != nil {
		return nil, err
	}
	if doc.UserID == req.PatientID {
		return nil, ErrSelfBooking
	}
	if !doc.Bookable() {
		return nil, ErrDoctorNotBookable
	}

	decision, date, tod, err := s.admit(doc, req.Date, req.Time)
	if err != nil {
		return nil, err
	}
	switch decision {
	case availability.RejectedOutsideHours:
		return nil, ErrOutsideWorkingHours
	case availability.RejectedInPast:
		return nil, ErrBookingInPast
	}

	var (
		created *Appointment
		patient *account.Account
	)

	key := redisclient.SlotKey{DoctorID: doc.ID, Date: date, Time: tod}
	err = s.locker.WithSlotLock(ctx, key, func(lockCtx context.Context) error {
		decision, err := s.detectConflict(lockCtx, doc.ID, date, tod)
		if err != nil {
			return err
		}
		if decision == availability.RejectedSlotTaken {
			return ErrSlotTaken
		}

		patient, err = s.patients.Profile(lockCtx, req.PatientID)
		if err != nil {
			if errors.Is(err, account.ErrUserNotFound) {
				return ErrPatientNotFound
			}
			return err
		}

		created, err = s.repo.Create(lockCtx, Appointment{
			UserID:     req.PatientID,
			DoctorID:   doc.ID,
			DoctorInfo: *doc,
			UserInfo:   patient.Contact(),
			Date:       date,
			Time:       tod,
			Status:     StatusPending,
			Document:   upload.NormalizePath(req.Document),
		})
		if err != nil {
			return apperr.Persistence("create appointment", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, redisclient.ErrLockNotAcquired) {
			return nil, ErrSlotBeingBooked
		}
		var ae *apperr.Error
		if !errors.As(err, &ae) {
			return nil, apperr.Persistence("acquire slot lock", err)
		}
		return nil, err
	}

	log.Info().
		Str("appointment_id", created.ID.String()).
		Str("doctor_id", doc.ID.String()).
		Str("date", date).
		Str("time", tod).
		Msg("appointment booked")

	s.notifier.NotifyAccount(doc.UserID, notify.Notification{
		Type:        notify.TypeNewAppointmentRequest,
		Message:     "New appointment request from " + patient.Name,
		OnClickPath: "/doctor/appointments",
		Data:        map[string]string{"appointmentId": created.ID.String()},
	})
	s.notifier.Email(patient.Email, "Appointment Request Received",
		fmt.Sprintf("Your request for Dr. %s on %s at %s is pending approval.", doc.FirstName, date, tod))

	return created, nil
}

// CheckAvailability answers whether BookAppointment would currently accept
// the slot. It never writes.
func (s *Service) CheckAvailability(ctx context.Context, doctorID uuid.UUID, date, timeOfDay string) (availability.Decision, error) {
	doc, err := s.loadDoctor(ctx, doctorID)
	if err != nil {
		return "", err
	}
	if !doc.Bookable() {
		return "", ErrDoctorNotBookable
	}

	decision, day, tod, err := s.admit(doc, date, timeOfDay)
	if err != nil || !decision.Accepted() {
		return decision, err
	}

	return s.detectConflict(ctx, doc.ID, day, tod)
}

func parseDecisionStatus(status string) (Status, bool) {
	switch st := Status(status); st {
	case StatusApproved, StatusRejected:
		return st, true
	default:
		return "", false
	}
}

// ownedByDoctor loads an appointment that belongs to the doctor profile of
// doctorUserID. Anything else reads as not found.
func (s *Service) ownedByDoctor(ctx context.Context, doctorUserID, appointmentID uuid.UUID) (*Appointment, error) {
	doc, err := s.doctors.GetByUserID(ctx, doctorUserID)
	if err != nil {
		return nil, err
	}

	appt, err := s.repo.GetByID(ctx, appointmentID)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, apperr.Persistence("load appointment", err)
	}
	if appt.DoctorID != doc.ID {
		return nil, ErrAppointmentNotFound
	}
	return appt, nil
}

// ChangeStatus approves or rejects a pending appointment.
func (s *Service) ChangeStatus(ctx context.Context, doctorUserID, appointmentID uuid.UUID, status string) (*Appointment, error) {
	to, ok := parseDecisionStatus(status)
	if !ok {
		return nil, ErrInvalidStatus
	}

	if _, err := s.ownedByDoctor(ctx, doctorUserID, appointmentID); err != nil {
		return nil, err
	}

	updated, err := s.repo.Transition(ctx, appointmentID, []Status{StatusPending}, to)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrInvalidTransition
	}
	if err != nil {
		return nil, apperr.Persistence("update appointment status", err)
	}

	s.notifier.NotifyAccount(updated.UserID, notify.Notification{
		Type:        notify.TypeAppointmentStatus,
		Message:     fmt.Sprintf("Your appointment with Dr. %s has been %s", updated.DoctorInfo.FirstName, to),
		OnClickPath: "/user/appointments",
		Data:        map[string]string{"appointmentId": updated.ID.String(), "status": string(to)},
	})
	if to == StatusApproved {
		s.notifier.Email(updated.UserInfo.Email, "Appointment Confirmed",
			fmt.Sprintf("Your appointment with Dr. %s on %s at %s has been confirmed.",
				updated.DoctorInfo.FirstName, updated.Date, updated.Time))
	}

	return updated, nil
}

// CompleteAppointment closes an approved appointment with the doctor's
// prescription and visit summary.
func (s *Service) CompleteAppointment(ctx context.Context, doctorUserID, appointmentID uuid.UUID, prescription, visitSummary string) (*Appointment, error) {
	if _, err := s.ownedByDoctor(ctx, doctorUserID, appointmentID); err != nil {
		return nil, err
	}

	updated, err := s.repo.Complete(ctx, appointmentID, prescription, visitSummary)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrInvalidTransition
	}
	if err != nil {
		return nil, apperr.Persistence("complete appointment", err)
	}

	s.notifier.NotifyAccount(updated.UserID, notify.Notification{
		Type:        notify.TypeAppointmentCompleted,
		Message:     fmt.Sprintf("Your appointment with Dr. %s is complete. View summary/prescription.", updated.DoctorInfo.FirstName),
		OnClickPath: "/user/appointments",
		Data:        map[string]string{"appointmentId": updated.ID.String()},
	})
	s.notifier.Email(updated.UserInfo.Email, "Visit Summary",
		fmt.Sprintf("Dr. %s has added a visit summary and prescription. Check your dashboard.", updated.DoctorInfo.FirstName))

	return updated, nil
}

// CancelAppointment lets the patient who booked an appointment cancel it
// while it is pending or approved. Only the request that actually performs
// the transition notifies the doctor.
func (s *Service) CancelAppointment(ctx context.Context, patientID, appointmentID uuid.UUID) (*Appointment, error) {
	appt, err := s.repo.GetByID(ctx, appointmentID)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, apperr.Persistence("load appointment", err)
	}
	if appt.UserID != patientID {
		return nil, ErrAppointmentNotFound
	}
	if appt.Status.Terminal() {
		return nil, ErrCannotCancel
	}

	updated, err := s.repo.Transition(ctx, appointmentID, []Status{StatusPending, StatusApproved}, StatusCancelled)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrCannotCancel
	}
	if err != nil {
		return nil, apperr.Persistence("cancel appointment", err)
	}

	s.notifier.NotifyAccount(updated.DoctorInfo.UserID, notify.Notification{
		Type:        notify.TypeAppointmentCancelled,
		Message:     fmt.Sprintf("Appointment with %s has been cancelled by the patient.", updated.UserInfo.Name),
		OnClickPath: "/doctor/appointments",
		Data:        map[string]string{"appointmentId": updated.ID.String()},
	})

	return updated, nil
}

func (s *Service) ListForPatient(ctx context.Context, patientID uuid.UUID) ([]Appointment, error) {
	appts, err := s.repo.ListByUser(ctx, patientID)
	if err != nil {
		return nil, apperr.Persistence("list appointments", err)
	}
	return appts, nil
}

// ListForDoctor lists the appointments of the doctor profile owned by
// doctorUserID.
func (s *Service) ListForDoctor(ctx context.Context, doctorUserID uuid.UUID) ([]Appointment, error) {
	doc, err := s.doctors.GetByUserID(ctx, doctorUserID)
	if err != nil {
		return nil, err
	}

	appts, err := s.repo.ListByDoctor(ctx, doc.ID)
	if err != nil {
		return nil, apperr.Persistence("list appointments", err)
	}
	return appts, nil
}
