package utils

import (
	"encoding/json"
	"net/http"
)

// Response is the envelope every endpoint answers with. Data carries the
// payload on success, Errors carries field-level validation detail on 400s.
type Response struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Errors  any    `json:"errors,omitempty"`
}

func writeResponse(w http.ResponseWriter, code int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(resp)
}

// ResponseSuccess answers 200 with a payload.
func ResponseSuccess(w http.ResponseWriter, message string, data any) {
	writeResponse(w, http.StatusOK, Response{Status: true, Message: message, Data: data})
}

// ResponseCreated answers 201, used by registration.
func ResponseCreated(w http.ResponseWriter, message string, data any) {
	writeResponse(w, http.StatusCreated, Response{Status: true, Message: message, Data: data})
}

// ResponseBadRequest answers 400. Rejected credentials, duplicate emails,
// bad OTPs and validation failures all land here; errors is non-nil only
// for validation detail.
func ResponseBadRequest(w http.ResponseWriter, message string, errors any) {
	writeResponse(w, http.StatusBadRequest, Response{Status: false, Message: message, Errors: errors})
}

// ResponseUnauthorized answers 401 for missing or rejected tokens.
func ResponseUnauthorized(w http.ResponseWriter, message string) {
	writeResponse(w, http.StatusUnauthorized, Response{Status: false, Message: message})
}

// ResponseForbidden answers 403 for admin key failures.
func ResponseForbidden(w http.ResponseWriter, message string) {
	writeResponse(w, http.StatusForbidden, Response{Status: false, Message: message})
}

// ResponseNotFound answers 404 for unknown accounts.
func ResponseNotFound(w http.ResponseWriter, message string) {
	writeResponse(w, http.StatusNotFound, Response{Status: false, Message: message})
}

// ResponseInternalError answers 500 without leaking the underlying error.
func ResponseInternalError(w http.ResponseWriter, message string) {
	writeResponse(w, http.StatusInternalServerError, Response{Status: false, Message: message})
}
