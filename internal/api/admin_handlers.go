package api

import (
	"net/http"

	"github.com/go-playground/validator/v10"
)

// requireAdmin rejects callers whose account lacks the admin flag. It runs
// after auth.Middleware.
func requireAdmin(accounts AccountService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := callerID(r)
			if err != nil {
				writeServiceError(w, r, err)
				return
			}

			acc, err := accounts.Profile(r.Context(), id)
			if err != nil {
				writeServiceError(w, r, err)
				return
			}
			if !acc.IsAdmin {
				writeJSON(w, http.StatusForbidden, envelope{Success: false, Message: "Admin access required"})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func listAllDoctorsHandler(svc DoctorService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		listings, err := svc.ListAll(r.Context())
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		ok(w, "Doctors fetched", listings)
	}
}

func listAccountsHandler(svc AccountService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accounts, err := svc.ListAccounts(r.Context())
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		ok(w, "Users fetched", accounts)
	}
}

func changeDoctorStatusHandler(svc DoctorService, v *validator.Validate) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req changeDoctorStatusRequest
		if err := decodeJSON(r, v, &req); err != nil {
			writeServiceError(w, r, err)
			return
		}

		listing, err := svc.ChangeStatus(r.Context(), parseID(req.DoctorID), req.Status)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		ok(w, "Doctor status updated", listing)
	}
}

func changeBlockStatusHandler(svc AccountService, v *validator.Validate) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req changeBlockStatusRequest
		if err := decodeJSON(r, v, &req); err != nil {
			writeServiceError(w, r, err)
			return
		}

		acc, err := svc.SetBlocked(r.Context(), parseID(req.UserID), *req.IsBlocked)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		msg := "User Unblocked"
		if *req.IsBlocked {
			msg = "User Blocked"
		}
		ok(w, msg, acc)
	}
}
