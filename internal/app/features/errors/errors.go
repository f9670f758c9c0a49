// Package errors writes JSON responses for the feature handlers and maps
// domain errors onto HTTP status codes.
package errors

import (
	"encoding/json"
	"net/http"

	"github.com/dalemusser/adarshgram/internal/domain/apperr"
	"go.uber.org/zap"
)

// ErrorLogger answers failed requests and logs them at a level matching
// their kind.
type ErrorLogger struct {
	Log *zap.Logger
}

// NewErrorLogger constructs an ErrorLogger.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	return &ErrorLogger{Log: logger}
}

// errorBody is the JSON error envelope.
type errorBody struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// WriteJSON writes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Write answers with err's status. Rejected input is logged at debug and
// echoed to the client; anything else is logged at error and the client
// gets userMsg instead of the internal detail.
func (e *ErrorLogger) Write(w http.ResponseWriter, r *http.Request, userMsg string, err error) {
	status := apperr.HTTPStatus(err)
	kind := apperr.Kind(err)

	if status >= http.StatusInternalServerError {
		e.Log.Error(userMsg,
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("kind", kind),
			zap.Error(err))
		WriteJSON(w, status, errorBody{Error: userMsg, Kind: kind})
		return
	}

	e.Log.Debug("request rejected",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.String("kind", kind),
		zap.Error(err))
	WriteJSON(w, status, errorBody{Error: err.Error(), Kind: kind})
}

// BadRequest answers 400 for malformed requests that never reached the
// domain layer.
func (e *ErrorLogger) BadRequest(w http.ResponseWriter, r *http.Request, msg string) {
	e.Log.Debug("bad request", zap.String("path", r.URL.Path), zap.String("reason", msg))
	WriteJSON(w, http.StatusBadRequest, errorBody{Error: msg, Kind: "validation"})
}
