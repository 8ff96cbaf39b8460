package respond

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// ErrorBody mirrors the error document of the LifeLink backend.
type ErrorBody struct {
	Status  int    `json:"status"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

// MessageBody is the acknowledgement document for writes without a payload.
type MessageBody struct {
	Message string `json:"message"`
}

// JSON writes payload as-is.
func JSON(w http.ResponseWriter, status int, payload any) {
	write(w, status, payload)
}

// Message writes an acknowledgement.
func Message(w http.ResponseWriter, status int, message string) {
	write(w, status, MessageBody{Message: message})
}

// Error writes an error response with the shared error structure.
func Error(w http.ResponseWriter, status int, message string) {
	write(w, status, ErrorBody{Status: status, Error: http.StatusText(status), Message: message})
}

func write(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		zap.L().Warn("respond: encode payload failed", zap.Error(err))
	}
}
