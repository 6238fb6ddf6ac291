package api

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/hackgods/docspot/internal/account"
)

func registerHandler(svc AccountService, v *validator.Validate) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if err := decodeJSON(r, v, &req); err != nil {
			writeServiceError(w, r, err)
			return
		}

		err := svc.Register(r.Context(), account.Registration{
			Name:     req.Name,
			Email:    req.Email,
			Password: req.Password,
			Phone:    req.Phone,
		})
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		ok(w, "OTP sent to your email", map[string]bool{"showOtpField": true})
	}
}

func verifyOTPHandler(svc AccountService, v *validator.Validate) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req verifyOTPRequest
		if err := decodeJSON(r, v, &req); err != nil {
			writeServiceError(w, r, err)
			return
		}

		token, err := svc.VerifyOTP(r.Context(), req.Email, req.OTP)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		okToken(w, "Verification Successful", token)
	}
}

func loginHandler(svc AccountService, v *validator.Validate) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := decodeJSON(r, v, &req); err != nil {
			writeServiceError(w, r, err)
			return
		}

		token, err := svc.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		okToken(w, "Login Successful", token)
	}
}

func userInfoHandler(svc AccountService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := callerID(r)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		acc, err := svc.Profile(r.Context(), id)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		ok(w, "User info fetched", acc)
	}
}

func updateUserProfileHandler(svc AccountService, v *validator.Validate) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := callerID(r)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		var req updateProfileRequest
		if err := decodeJSON(r, v, &req); err != nil {
			writeServiceError(w, r, err)
			return
		}

		acc, err := svc.UpdateProfile(r.Context(), id, req.Name, req.Phone)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		ok(w, "Profile Updated Successfully", acc)
	}
}

func markAllSeenHandler(svc AccountService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := callerID(r)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		acc, err := svc.MarkAllNotificationsSeen(r.Context(), id)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		ok(w, "All notifications marked as seen", acc)
	}
}

func deleteAllNotificationsHandler(svc AccountService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := callerID(r)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		acc, err := svc.DeleteAllNotifications(r.Context(), id)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		ok(w, "Notifications deleted", acc)
	}
}
