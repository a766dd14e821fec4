package rest

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	apperrors "github.com/louisbranch/eventdesk/internal/platform/errors"
	"github.com/louisbranch/eventdesk/internal/platform/requestctx"
)

type errorBody struct {
	Code    apperrors.Code             `json:"code"`
	Message string                     `json:"message"`
	Details []apperrors.FieldViolation `json:"details,omitempty"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("request %s: encode response: %v", requestctx.RequestIDFromContext(r.Context()), err)
	}
}

// writeError maps domain errors to the wire envelope. Unexpected errors are
// logged with their cause and exposed only as a generic internal failure.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var appErr *apperrors.Error
	if !errors.As(err, &appErr) {
		appErr = apperrors.Wrap(apperrors.CodeInternal, "Internal server error", err)
	}
	if appErr.Code == apperrors.CodeInternal {
		log.Printf("request %s: internal error: %v", requestctx.RequestIDFromContext(r.Context()), err)
	}
	writeJSON(w, r, appErr.Code.HTTPStatus(), errorResponse{Error: errorBody{
		Code:    appErr.Code,
		Message: appErr.Message,
		Details: appErr.Details,
	}})
}
