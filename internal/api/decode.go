package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/hackgods/docspot/internal/apperr"
	"github.com/hackgods/docspot/internal/auth"
)

const maxJSONBody = 1 << 20

// NewValidator reports field errors by their JSON names.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func validationMessage(err error) string {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return "Invalid request"
	}

	fe := errs[0]
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	case "uuid":
		return fmt.Sprintf("%s must be a valid id", fe.Field())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
	case "len":
		return fmt.Sprintf("%s must have length %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

// decodeJSON reads a JSON body into dst and validates it. An empty body
// decodes as the zero value so that validation reports the missing fields.
func decodeJSON(r *http.Request, v *validator.Validate, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxJSONBody))
	if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return &apperr.Error{Kind: apperr.KindValidation, Message: "Invalid JSON body", Err: err}
	}
	return validateStruct(v, dst)
}

func validateStruct(v *validator.Validate, dst any) error {
	if err := v.Struct(dst); err != nil {
		return &apperr.Error{Kind: apperr.KindValidation, Message: validationMessage(err), Err: err}
	}
	return nil
}

// parseID parses an id already checked by the uuid validation tag.
func parseID(s string) uuid.UUID {
	id, _ := uuid.Parse(s)
	return id
}

// callerID returns the authenticated account. Routes using it sit behind
// auth.Middleware, so a missing id is an auth failure.
func callerID(r *http.Request) (uuid.UUID, error) {
	id, ok := auth.AccountIDFromContext(r.Context())
	if !ok {
		return uuid.Nil, apperr.Auth("Auth failed: No token provided")
	}
	return id, nil
}
