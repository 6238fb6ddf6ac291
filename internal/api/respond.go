package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/hackgods/docspot/internal/apperr"
)

// envelope is the body of every /api response.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Token   string `json:"token,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("encode response")
	}
}

func ok(w http.ResponseWriter, msg string, data any) {
	writeJSON(w, http.StatusOK, envelope{Success: true, Message: msg, Data: data})
}

func okToken(w http.ResponseWriter, msg, token string) {
	writeJSON(w, http.StatusOK, envelope{Success: true, Message: msg, Token: token})
}

// fail reports a recoverable failure. The HTTP status stays 200 and the
// caller reads success=false.
func fail(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusOK, envelope{Success: false, Message: msg})
}

// writeServiceError maps an error from the domain services to a response.
// Caller-facing kinds become a failure envelope, auth becomes 401 and
// everything else a 500 with the cause logged.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var ae *apperr.Error
	errors.As(err, &ae)

	switch {
	case apperr.IsCallerFacing(err):
		if ae.Err != nil {
			log.Debug().Err(ae.Err).Str("request_id", GetRequestID(r.Context())).Msg(ae.Message)
		}
		fail(w, ae.Message)
	case apperr.KindOf(err) == apperr.KindAuth:
		writeJSON(w, http.StatusUnauthorized, envelope{Success: false, Message: ae.Message})
	default:
		log.Error().
			Err(err).
			Str("request_id", GetRequestID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("request failed")
		writeJSON(w, http.StatusInternalServerError, envelope{Success: false, Message: "Something went wrong, please try again"})
	}
}
