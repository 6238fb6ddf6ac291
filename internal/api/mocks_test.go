package api

import (
	"context"
	"mime/multipart"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/hackgods/docspot/internal/account"
	"github.com/hackgods/docspot/internal/appointment"
	"github.com/hackgods/docspot/internal/availability"
	"github.com/hackgods/docspot/internal/doctor"
)

type MockAccountService struct {
	mock.Mock
}

func accountResult(args mock.Arguments) (*account.Account, error) {
	acc, _ := args.Get(0).(*account.Account)
	return acc, args.Error(1)
}

func (m *MockAccountService) Register(ctx context.Context, reg account.Registration) error {
	return m.Called(ctx, reg).Error(0)
}

func (m *MockAccountService) VerifyOTP(ctx context.Context, email, otp string) (string, error) {
	args := m.Called(ctx, email, otp)
	return args.String(0), args.Error(1)
}

func (m *MockAccountService) Login(ctx context.Context, email, password string) (string, error) {
	args := m.Called(ctx, email, password)
	return args.String(0), args.Error(1)
}

func (m *MockAccountService) Profile(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	return accountResult(m.Called(ctx, id))
}

func (m *MockAccountService) UpdateProfile(ctx context.Context, id uuid.UUID, name, phone string) (*account.Account, error) {
	return accountResult(m.Called(ctx, id, name, phone))
}

func (m *MockAccountService) MarkAllNotificationsSeen(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	return accountResult(m.Called(ctx, id))
}

func (m *MockAccountService) DeleteAllNotifications(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	return accountResult(m.Called(ctx, id))
}

func (m *MockAccountService) ListAccounts(ctx context.Context) ([]account.Account, error) {
	args := m.Called(ctx)
	accounts, _ := args.Get(0).([]account.Account)
	return accounts, args.Error(1)
}

func (m *MockAccountService) SetBlocked(ctx context.Context, id uuid.UUID, blocked bool) (*account.Account, error) {
	return accountResult(m.Called(ctx, id, blocked))
}

type MockDoctorService struct {
	mock.Mock
}

func profileResult(args mock.Arguments) (*doctor.Profile, error) {
	p, _ := args.Get(0).(*doctor.Profile)
	return p, args.Error(1)
}

func (m *MockDoctorService) Apply(ctx context.Context, userID uuid.UUID, app doctor.Application) (string, *doctor.Profile, error) {
	args := m.Called(ctx, userID, app)
	p, _ := args.Get(1).(*doctor.Profile)
	return args.String(0), p, args.Error(2)
}

func (m *MockDoctorService) UpdateProfile(ctx context.Context, userID uuid.UUID, app doctor.Application) (*doctor.Profile, error) {
	return profileResult(m.Called(ctx, userID, app))
}

func (m *MockDoctorService) GetByUserID(ctx context.Context, userID uuid.UUID) (*doctor.Profile, error) {
	return profileResult(m.Called(ctx, userID))
}

func (m *MockDoctorService) GetByID(ctx context.Context, id uuid.UUID) (*doctor.Profile, error) {
	return profileResult(m.Called(ctx, id))
}

func (m *MockDoctorService) ListApproved(ctx context.Context, f doctor.Filter) ([]doctor.Profile, error) {
	args := m.Called(ctx, f)
	profiles, _ := args.Get(0).([]doctor.Profile)
	return profiles, args.Error(1)
}

func (m *MockDoctorService) ListAll(ctx context.Context) ([]doctor.Listing, error) {
	args := m.Called(ctx)
	listings, _ := args.Get(0).([]doctor.Listing)
	return listings, args.Error(1)
}

func (m *MockDoctorService) ChangeStatus(ctx context.Context, id uuid.UUID, status string) (*doctor.Listing, error) {
	args := m.Called(ctx, id, status)
	l, _ := args.Get(0).(*doctor.Listing)
	return l, args.Error(1)
}

type MockAppointmentService struct {
	mock.Mock
}

func appointmentResult(args mock.Arguments) (*appointment.Appointment, error) {
	a, _ := args.Get(0).(*appointment.Appointment)
	return a, args.Error(1)
}

func (m *MockAppointmentService) BookAppointment(ctx context.Context, req appointment.BookingRequest) (*appointment.Appointment, error) {
	return appointmentResult(m.Called(ctx, req))
}

func (m *MockAppointmentService) CheckAvailability(ctx context.Context, doctorID uuid.UUID, date, timeOfDay string) (availability.Decision, error) {
	args := m.Called(ctx, doctorID, date, timeOfDay)
	d, _ := args.Get(0).(availability.Decision)
	return d, args.Error(1)
}

func (m *MockAppointmentService) ChangeStatus(ctx context.Context, doctorUserID, appointmentID uuid.UUID, status string) (*appointment.Appointment, error) {
	return appointmentResult(m.Called(ctx, doctorUserID, appointmentID, status))
}

func (m *MockAppointmentService) CompleteAppointment(ctx context.Context, doctorUserID, appointmentID uuid.UUID, prescription, visitSummary string) (*appointment.Appointment, error) {
	return appointmentResult(m.Called(ctx, doctorUserID, appointmentID, prescription, visitSummary))
}

func (m *MockAppointmentService) CancelAppointment(ctx context.Context, patientID, appointmentID uuid.UUID) (*appointment.Appointment, error) {
	return appointmentResult(m.Called(ctx, patientID, appointmentID))
}

func (m *MockAppointmentService) ListForPatient(ctx context.Context, patientID uuid.UUID) ([]appointment.Appointment, error) {
	args := m.Called(ctx, patientID)
	appts, _ := args.Get(0).([]appointment.Appointment)
	return appts, args.Error(1)
}

func (m *MockAppointmentService) ListForDoctor(ctx context.Context, doctorUserID uuid.UUID) ([]appointment.Appointment, error) {
	args := m.Called(ctx, doctorUserID)
	appts, _ := args.Get(0).([]appointment.Appointment)
	return appts, args.Error(1)
}

type MockDocumentStore struct {
	mock.Mock
}

func (m *MockDocumentStore) Save(fh *multipart.FileHeader) (string, error) {
	args := m.Called(fh)
	return args.String(0), args.Error(1)
}

func (m *MockDocumentStore) Remove(publicPath string) error {
	return m.Called(publicPath).Error(0)
}

type stubPinger struct {
	err error
}

func (p stubPinger) Ping(context.Context) error {
	return p.err
}
