package api

import (
	"context"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/hackgods/docspot/internal/account"
	"github.com/hackgods/docspot/internal/appointment"
	"github.com/hackgods/docspot/internal/auth"
	"github.com/hackgods/docspot/internal/availability"
	"github.com/hackgods/docspot/internal/doctor"
)

type AccountService interface {
	Register(ctx context.Context, reg account.Registration) error
	VerifyOTP(ctx context.Context, email, otp string) (string, error)
	Login(ctx context.Context, email, password string) (string, error)
	Profile(ctx context.Context, id uuid.UUID) (*account.Account, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, name, phone string) (*account.Account, error)
	MarkAllNotificationsSeen(ctx context.Context, id uuid.UUID) (*account.Account, error)
	DeleteAllNotifications(ctx context.Context, id uuid.UUID) (*account.Account, error)
	ListAccounts(ctx context.Context) ([]account.Account, error)
	SetBlocked(ctx context.Context, id uuid.UUID, blocked bool) (*account.Account, error)
}

type DoctorService interface {
	Apply(ctx context.Context, userID uuid.UUID, app doctor.Application) (string, *doctor.Profile, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, app doctor.Application) (*doctor.Profile, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*doctor.Profile, error)
	GetByID(ctx context.Context, id uuid.UUID) (*doctor.Profile, error)
	ListApproved(ctx context.Context, f doctor.Filter) ([]doctor.Profile, error)
	ListAll(ctx context.Context) ([]doctor.Listing, error)
	ChangeStatus(ctx context.Context, id uuid.UUID, status string) (*doctor.Listing, error)
}

type AppointmentService interface {
	BookAppointment(ctx context.Context, req appointment.BookingRequest) (*appointment.Appointment, error)
	CheckAvailability(ctx context.Context, doctorID uuid.UUID, date, timeOfDay string) (availability.Decision, error)
	ChangeStatus(ctx context.Context, doctorUserID, appointmentID uuid.UUID, status string) (*appointment.Appointment, error)
	CompleteAppointment(ctx context.Context, doctorUserID, appointmentID uuid.UUID, prescription, visitSummary string) (*appointment.Appointment, error)
	CancelAppointment(ctx context.Context, patientID, appointmentID uuid.UUID) (*appointment.Appointment, error)
	ListForPatient(ctx context.Context, patientID uuid.UUID) ([]appointment.Appointment, error)
	ListForDoctor(ctx context.Context, doctorUserID uuid.UUID) ([]appointment.Appointment, error)
}

// DocumentStore persists an uploaded medical document and returns its
// public path, or "" when the file was skipped. Remove discards a saved
// document whose booking did not go through.
type DocumentStore interface {
	Save(fh *multipart.FileHeader) (string, error)
	Remove(publicPath string) error
}

type RouterConfig struct {
	Accounts       AccountService
	Doctors        DoctorService
	Appointments   AppointmentService
	Tokens         *auth.TokenManager
	Documents      DocumentStore
	Validate       *validator.Validate
	Postgres       Pinger
	Redis          Pinger
	Env            string
	Version        string
	AllowedOrigins []string
	UploadDir      string
}

func NewRouter(cfg RouterConfig) http.Handler {
	v := cfg.Validate
	if v == nil {
		v = NewValidator()
	}

	r := chi.NewRouter()

	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware)
	r.Use(RecoverMiddleware)
	r.Use(CORSMiddleware(cfg.AllowedOrigins))

	health := NewHealthHandler(cfg.Postgres, cfg.Redis, cfg.Env, cfg.Version)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)

	if cfg.UploadDir != "" {
		r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadDir))))
	}

	r.Route("/api", func(r chi.Router) {
		r.Post("/user/register", registerHandler(cfg.Accounts, v))
		r.Post("/user/verify-otp", verifyOTPHandler(cfg.Accounts, v))
		r.Post("/user/login", loginHandler(cfg.Accounts, v))

		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(cfg.Tokens))

			r.Post("/user/get-user-info-by-id", userInfoHandler(cfg.Accounts))
			r.Post("/user/update-user-profile", updateUserProfileHandler(cfg.Accounts, v))
			r.Post("/user/apply-doctor-account", applyDoctorHandler(cfg.Doctors, v))
			r.Post("/user/mark-all-notifications-as-seen", markAllSeenHandler(cfg.Accounts))
			r.Post("/user/delete-all-notifications", deleteAllNotificationsHandler(cfg.Accounts))
			r.Get("/user/get-all-approved-doctors", listApprovedDoctorsHandler(cfg.Doctors))
			r.Post("/user/book-appointment", bookAppointmentHandler(cfg.Appointments, cfg.Documents, v))
			r.Post("/user/check-booking-availability", checkAvailabilityHandler(cfg.Appointments, v))
			r.Get("/user/get-appointments-by-user-id", userAppointmentsHandler(cfg.Appointments))
			r.Post("/user/cancel-appointment", cancelAppointmentHandler(cfg.Appointments, v))

			r.Post("/doctor/get-doctor-info-by-user-id", doctorByUserIDHandler(cfg.Doctors, v))
			r.Post("/doctor/get-doctor-info-by-id", doctorByIDHandler(cfg.Doctors, v))
			r.Post("/doctor/update-doctor-profile", updateDoctorProfileHandler(cfg.Doctors, v))
			r.Get("/doctor/get-appointments-by-doctor-id", doctorAppointmentsHandler(cfg.Appointments))
			r.Post("/doctor/change-appointment-status", changeAppointmentStatusHandler(cfg.Appointments, v))
			r.Post("/doctor/complete-appointment", completeAppointmentHandler(cfg.Appointments, v))

			r.Route("/admin", func(r chi.Router) {
				r.Use(requireAdmin(cfg.Accounts))

				r.Get("/get-all-doctors", listAllDoctorsHandler(cfg.Doctors))
				r.Get("/get-all-users", listAccountsHandler(cfg.Accounts))
				r.Post("/change-doctor-account-status", changeDoctorStatusHandler(cfg.Doctors, v))
				r.Post("/change-user-block-status", changeBlockStatusHandler(cfg.Accounts, v))
			})
		})
	})

	return r
}
