package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

const (
	msgNetwork      = "Could not connect to the server. Please check your internet connection."
	msgUnauthorized = "Authentication failed. Please login again."
	msgForbidden    = "You do not have permission to perform this action."
	msgNotFound     = "The requested resource was not found."
	msgServer       = "Server error. Please try again later."
)

// Error is returned for any failed call. Status is zero when no response
// was received.
type Error struct {
	Method        string
	Path          string
	Status        int
	Message       string
	ServerMessage string
	Body          []byte
	Err           error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

// errorBody is the error document the backend sends on failures.
type errorBody struct {
	Status  int    `json:"status"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

func newStatusError(method, path string, status int, body []byte) *Error {
	var parsed errorBody
	_ = json.Unmarshal(body, &parsed)
	serverMsg := strings.TrimSpace(parsed.Message)

	e := &Error{
		Method:        method,
		Path:          path,
		Status:        status,
		ServerMessage: serverMsg,
		Body:          body,
		Err:           fmt.Errorf("%s %s: status %d", method, path, status),
	}
	switch {
	case serverMsg != "":
		e.Message = serverMsg
	case status == http.StatusUnauthorized:
		e.Message = msgUnauthorized
	case status == http.StatusForbidden:
		e.Message = msgForbidden
	case status == http.StatusNotFound:
		e.Message = msgNotFound
	case status == http.StatusInternalServerError:
		e.Message = msgServer
	default:
		detail := strings.TrimSpace(parsed.Error)
		if detail == "" {
			detail = "Unknown error"
		}
		e.Message = fmt.Sprintf("Error: %d - %s", status, detail)
	}
	return e
}

func newTransportError(method, path string, err error) *Error {
	return &Error{Method: method, Path: path, Message: msgNetwork, Err: err}
}

// StatusOf returns the HTTP status carried by err, or zero.
func StatusOf(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// ServerMessageOf returns the backend-provided message carried by err, if any.
func ServerMessageOf(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.ServerMessage
	}
	return ""
}
