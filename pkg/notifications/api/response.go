package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrymomot/notifeed/pkg/notifications"
	"github.com/dmitrymomot/notifeed/pkg/validator"
)

// Response is the JSON envelope of every endpoint.
type Response struct {
	Data  any            `json:"data,omitempty"`
	Meta  map[string]any `json:"meta,omitempty"`
	Error *ErrorDetail   `json:"error,omitempty"`
}

// ErrorDetail describes a failed request. Details maps field names to
// validation messages.
type ErrorDetail struct {
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Details map[string][]string `json:"details,omitempty"`
}

const (
	codeBadRequest = "bad_request"
	codeNotFound   = "not_found"
	codeValidation = "validation_failed"
)

func writeJSON(w http.ResponseWriter, status int, body Response) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, code string, err error) error {
	detail := &ErrorDetail{Code: code, Message: err.Error()}

	var verr *notifications.ValidationError
	if errors.As(err, &verr) {
		detail.Message = "invalid notification"
		if fields := validator.ExtractValidationErrors(verr.Err); fields != nil {
			detail.Details = make(map[string][]string, len(fields))
			for _, f := range fields {
				detail.Details[f.Field] = append(detail.Details[f.Field], f.Message)
			}
		} else {
			detail.Message = verr.Err.Error()
		}
	}

	return writeJSON(w, status, Response{Error: detail})
}
