package api

import (
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/hackgods/docspot/internal/doctor"
)

func (req doctorProfileRequest) application() doctor.Application {
	var timings [2]string
	copy(timings[:], req.Timings)
	return doctor.Application{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Phone:          req.Phone,
		Website:        req.Website,
		Address:        req.Address,
		Specialization: req.Specialization,
		Experience:     req.Experience,
		Fee:            req.Fee,
		Timings:        timings,
	}
}

func applyDoctorHandler(svc DoctorService, v *validator.Validate) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := callerID(r)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		var req doctorProfileRequest
		if err := decodeJSON(r, v, &req); err != nil {
			writeServiceError(w, r, err)
			return
		}

		msg, profile, err := svc.Apply(r.Context(), userID, req.application())
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		ok(w, msg, profile)
	}
}

func listApprovedDoctorsHandler(svc DoctorService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		doctors, err := svc.ListApproved(r.Context(), doctor.Filter{
			Search:         strings.TrimSpace(q.Get("search")),
			Specialization: strings.TrimSpace(q.Get("specialization")),
		})
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		ok(w, "Doctors fetched successfully", doctors)
	}
}

// doctorByUserIDHandler looks up the profile of the given userId, or of the
// caller when none is sent.
func doctorByUserIDHandler(svc DoctorService, v *validator.Validate) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := callerID(r)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		var req userIDRequest
		if err := decodeJSON(r, v, &req); err != nil {
			writeServiceError(w, r, err)
			return
		}
		if req.UserID != "" {
			userID = parseID(req.UserID)
		}

		profile, err := svc.GetByUserID(r.Context(), userID)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		ok(w, "Doctor info fetched", profile)
	}
}

func doctorByIDHandler(svc DoctorService, v *validator.Validate) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req doctorIDRequest
		if err := decodeJSON(r, v, &req); err != nil {
			writeServiceError(w, r, err)
			return
		}

		profile, err := svc.GetByID(r.Context(), parseID(req.DoctorID))
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		ok(w, "Doctor info fetched", profile)
	}
}

func updateDoctorProfileHandler(svc DoctorService, v *validator.Validate) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := callerID(r)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		var req doctorProfileRequest
		if err := decodeJSON(r, v, &req); err != nil {
			writeServiceError(w, r, err)
			return
		}

		profile, err := svc.UpdateProfile(r.Context(), userID, req.application())
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		ok(w, "Profile updated", profile)
	}
}
