package api

type registerRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Phone    string `json:"phone" validate:"omitempty,max=30"`
}

type verifyOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required,len=6,numeric"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type updateProfileRequest struct {
	Name  string `json:"name" validate:"required,max=100"`
	Phone string `json:"phone" validate:"omitempty,max=30"`
}

type doctorProfileRequest struct {
	FirstName      string   `json:"firstName" validate:"required"`
	LastName       string   `json:"lastName" validate:"required"`
	Phone          string   `json:"phoneNumber" validate:"required"`
	Website        string   `json:"website"`
	Address        string   `json:"address" validate:"required"`
	Specialization string   `json:"specialization" validate:"required"`
	Experience     string   `json:"experience" validate:"required"`
	Fee            float64  `json:"feePerConsultation" validate:"gte=0"`
	Timings        []string `json:"timings" validate:"required,len=2,dive,required"`
}

type slotRequest struct {
	DoctorID string `json:"doctorId" validate:"required,uuid"`
	Date     string `json:"date" validate:"required"`
	Time     string `json:"time" validate:"required"`
}

type appointmentIDRequest struct {
	AppointmentID string `json:"appointmentId" validate:"required,uuid"`
}

type changeAppointmentStatusRequest struct {
	AppointmentID string `json:"appointmentId" validate:"required,uuid"`
	Status        string `json:"status" validate:"required,oneof=approved rejected"`
}

type completeAppointmentRequest struct {
	AppointmentID string `json:"appointmentId" validate:"required,uuid"`
	Prescription  string `json:"prescription"`
	VisitSummary  string `json:"visitSummary"`
}

type doctorIDRequest struct {
	DoctorID string `json:"doctorId" validate:"required,uuid"`
}

type userIDRequest struct {
	UserID string `json:"userId" validate:"omitempty,uuid"`
}

type changeDoctorStatusRequest struct {
	DoctorID string `json:"doctorId" validate:"required,uuid"`
	Status   string `json:"status" validate:"required,oneof=pending approved rejected blocked"`
}

type changeBlockStatusRequest struct {
	UserID    string `json:"userId" validate:"required,uuid"`
	IsBlocked *bool  `json:"isBlocked" validate:"required"`
}
