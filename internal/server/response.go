package server

import (
	"encoding/json"
	"net/http"
)

// Response is the JSON envelope every API endpoint answers with.
// Errors never surface as bare 500 strings; they ride the same
// envelope with Success false.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Error   any    `json:"error,omitempty"`
	Meta    *Meta  `json:"meta,omitempty"`
}

// Meta carries pagination details for list endpoints.
type Meta struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total"`
}

// writeJSON serializes a value with the given status code.
func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(v) //nolint:errcheck // headers already sent
}

// writeSuccess answers with a populated envelope.
func writeSuccess(w http.ResponseWriter, statusCode int, message string, data any) {
	writeJSON(w, statusCode, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// writeSuccessWithMeta answers a list endpoint with pagination meta.
func writeSuccessWithMeta(w http.ResponseWriter, statusCode int, message string, data any, meta *Meta) {
	writeJSON(w, statusCode, Response{
		Success: true,
		Message: message,
		Data:    data,
		Meta:    meta,
	})
}

// writeError answers with an error envelope.
func writeError(w http.ResponseWriter, statusCode int, message string, detail any) {
	writeJSON(w, statusCode, Response{
		Success: false,
		Message: message,
		Error:   detail,
	})
}

// writeValidationError answers a request that failed DTO validation.
func writeValidationError(w http.ResponseWriter, errors any) {
	writeJSON(w, http.StatusBadRequest, Response{
		Success: false,
		Message: "Validation failed",
		Error:   errors,
	})
}
