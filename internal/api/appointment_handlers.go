package api

import (
	"errors"
	"mime"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/hackgods/docspot/internal/apperr"
	"github.com/hackgods/docspot/internal/appointment"
	"github.com/hackgods/docspot/internal/availability"
	"github.com/hackgods/docspot/internal/upload"
)

const documentField = "medicalDocument"

// readBooking accepts either a multipart form carrying an optional medical
// document or a plain JSON body.
func readBooking(r *http.Request, docs DocumentStore, v *validator.Validate) (slotRequest, string, error) {
	var req slotRequest

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		return req, "", decodeJSON(r, v, &req)
	}

	if err := r.ParseMultipartForm(1 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return req, "", &apperr.Error{Kind: apperr.KindValidation, Message: "Medical document must be 10 MB or smaller", Err: err}
		}
		return req, "", &apperr.Error{Kind: apperr.KindValidation, Message: "Invalid form body", Err: err}
	}
	defer r.MultipartForm.RemoveAll()

	req.DoctorID = r.FormValue("doctorId")
	req.Date = r.FormValue("date")
	req.Time = r.FormValue("time")
	if err := validateStruct(v, &req); err != nil {
		return req, "", err
	}

	files := r.MultipartForm.File[documentField]
	if len(files) == 0 {
		return req, "", nil
	}

	path, err := docs.Save(files[0])
	if errors.Is(err, upload.ErrTooLarge) {
		return req, "", &apperr.Error{Kind: apperr.KindValidation, Message: "Medical document must be 10 MB or smaller", Err: err}
	}
	if err != nil {
		return req, "", apperr.Persistence("store medical document", err)
	}
	return req, path, nil
}

func bookAppointmentHandler(svc AppointmentService, docs DocumentStore, v *validator.Validate) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		patientID, err := callerID(r)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, upload.MaxFileSize+(1<<20))
		req, document, err := readBooking(r, docs, v)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		appt, err := svc.BookAppointment(r.Context(), appointment.BookingRequest{
			PatientID: patientID,
			DoctorID:  parseID(req.DoctorID),
			Date:      req.Date,
			Time:      req.Time,
			Document:  document,
		})
		if err != nil {
			if document != "" {
				if rmErr := docs.Remove(document); rmErr != nil {
					log.Warn().Err(rmErr).Str("document", document).Msg("failed to remove document of rejected booking")
				}
			}
			writeServiceError(w, r, err)
			return
		}
		ok(w, "Appointment booked successfully", appt)
	}
}

var availabilityMessages = map[availability.Decision]string{
	availability.Accepted:             "Slot available",
	availability.RejectedOutsideHours: "Time is outside working hours",
	availability.RejectedInPast:       "Cannot book in the past",
	availability.RejectedSlotTaken:    "Slot not available",
}

func checkAvailabilityHandler(svc AppointmentService, v *validator.Validate) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req slotRequest
		if err := decodeJSON(r, v, &req); err != nil {
			writeServiceError(w, r, err)
			return
		}

		decision, err := svc.CheckAvailability(r.Context(), parseID(req.DoctorID), req.Date, req.Time)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		msg := availabilityMessages[decision]
		if decision.Accepted() {
			ok(w, msg, nil)
			return
		}
		fail(w, msg)
	}
}

func userAppointmentsHandler(svc AppointmentService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		patientID, err := callerID(r)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		appts, err := svc.ListForPatient(r.Context(), patientID)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		ok(w, "Appointments fetched", appts)
	}
}

func cancelAppointmentHandler(svc AppointmentService, v *validator.Validate) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		patientID, err := callerID(r)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		var req appointmentIDRequest
		if err := decodeJSON(r, v, &req); err != nil {
			writeServiceError(w, r, err)
			return
		}

		appt, err := svc.CancelAppointment(r.Context(), patientID, parseID(req.AppointmentID))
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		ok(w, "Appointment cancelled successfully", appt)
	}
}

func doctorAppointmentsHandler(svc AppointmentService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doctorUserID, err := callerID(r)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		appts, err := svc.ListForDoctor(r.Context(), doctorUserID)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		ok(w, "Appointments fetched", appts)
	}
}

func changeAppointmentStatusHandler(svc AppointmentService, v *validator.Validate) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doctorUserID, err := callerID(r)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		var req changeAppointmentStatusRequest
		if err := decodeJSON(r, v, &req); err != nil {
			writeServiceError(w, r, err)
			return
		}

		appt, err := svc.ChangeStatus(r.Context(), doctorUserID, parseID(req.AppointmentID), req.Status)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		ok(w, "Status updated successfully", appt)
	}
}

func completeAppointmentHandler(svc AppointmentService, v *validator.Validate) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doctorUserID, err := callerID(r)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		var req completeAppointmentRequest
		if err := decodeJSON(r, v, &req); err != nil {
			writeServiceError(w, r, err)
			return
		}

		appt, err := svc.CompleteAppointment(r.Context(), doctorUserID, parseID(req.AppointmentID), req.Prescription, req.VisitSummary)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		ok(w, "Appointment completed details saved", appt)
	}
}
