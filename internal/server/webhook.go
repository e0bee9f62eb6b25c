package server

import (
	"crypto/subtle"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/shinkansenfinance/shinkansen-go/internal/jws"
	"github.com/shinkansenfinance/shinkansen-go/internal/logger"
	"github.com/shinkansenfinance/shinkansen-go/internal/message"
)

// Headers expected on incoming webhook requests.
const (
	HeaderAPIKey       = "Shinkansen-Api-Key"
	HeaderJWSSignature = "Shinkansen-JWS-Signature"
)

// handleMessage receives an asynchronous response message.
//
// The signature is verified over the raw request body exactly as received;
// the body is never re-serialized before verification.
func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	reqLogger := logger.ContextRequestLogger(r.Context())

	if s.config.WebhookAPIKey != "" {
		provided := r.Header.Get(HeaderAPIKey)
		if subtle.ConstantTimeCompare([]byte(provided), []byte(s.config.WebhookAPIKey)) != 1 {
			RespondWithErrorResponse(w, r, http.StatusUnauthorized,
				"invalid_api_key", "Invalid or missing API key", nil)
			return
		}
	}

	signature := r.Header.Get(HeaderJWSSignature)
	if signature == "" {
		RespondWithErrorResponse(w, r, http.StatusBadRequest,
			"missing_signature", "Missing "+HeaderJWSSignature+" header", nil)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		RespondWithErrorResponse(w, r, http.StatusBadRequest,
			"invalid_body", "Failed to read request body", err)
		return
	}

	msg, err := message.ParseResponseMessage(body)
	if err != nil {
		RespondWithErrorResponse(w, r, http.StatusBadRequest,
			"invalid_message", "Failed to decode response message", err)
		return
	}

	if err := msg.Verify(signature, s.whitelist, s.expectedSender, s.expectedReceiver); err != nil {
		statusCode, errorCode := classifyVerificationError(err)
		RespondWithErrorResponse(w, r, statusCode,
			errorCode, "Message verification failed", err)
		return
	}

	reqLogger.Info("verified response message",
		slog.String("message_id", msg.Header.MessageID),
		slog.String("sender", msg.Header.Sender.FinID),
		slog.Int("responses", len(msg.Responses)))

	if s.handler != nil {
		if err := s.handler(r.Context(), msg); err != nil {
			RespondWithErrorResponse(w, r, http.StatusInternalServerError,
				"processing_failed", "Failed to process message", err)
			return
		}
	}

	RespondWithJSONPayload(w, http.StatusOK, map[string]string{"status": "ok"})
}

// classifyVerificationError maps verification failures to HTTP responses.
// Structural problems are client errors; everything else is a rejected
// signature or identity.
func classifyVerificationError(err error) (int, string) {
	if jws.CodeOf(err) == jws.ErrCodeInvalidJWS {
		return http.StatusBadRequest, string(jws.ErrCodeInvalidJWS)
	}

	var jwsErr *jws.SignatureError
	if errors.As(err, &jwsErr) {
		return http.StatusUnauthorized, string(jwsErr.Code())
	}

	var msgErr *message.MessageError
	if errors.As(err, &msgErr) {
		return http.StatusUnauthorized, string(msgErr.Code())
	}

	return http.StatusUnauthorized, "verification_failed"
}
