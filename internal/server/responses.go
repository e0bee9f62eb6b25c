package server

// responses.go provides helpers for sending HTTP responses from the webhook
// receiver handlers.

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/shinkansenfinance/shinkansen-go/internal/logger"
)

// ErrorResponse is the JSON body returned for rejected webhook requests.
type ErrorResponse struct {
	ErrorCode    string `json:"error_code"`
	ErrorMessage string `json:"error_message"`
}

// RespondWithErrorResponse sends a JSON error response.
//
// The full error is logged server-side; the client only sees the error code
// and a sanitized message.
func RespondWithErrorResponse(w http.ResponseWriter, r *http.Request, statusCode int, errorCode, errorMessage string, err error) {
	reqLogger := logger.ContextRequestLogger(r.Context())

	attrs := []any{
		slog.Int("status_code", statusCode),
		slog.String("error_code", errorCode),
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	reqLogger.Warn("request rejected", attrs...)

	RespondWithJSONPayload(w, statusCode, ErrorResponse{
		ErrorCode:    errorCode,
		ErrorMessage: errorMessage,
	})
}

// RespondWithJSONPayload sends a JSON response with the given status code
func RespondWithJSONPayload(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			// Headers are already written, so just log the failure
			slog.Error("failed to encode JSON response",
				slog.String("error", err.Error()),
			)
		}
	}
}
