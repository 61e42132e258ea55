package common

import (
	"encoding/json"
	"net/http"
)

// StatusResponse is the envelope used for plain success/failure bodies.
type StatusResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// FieldErrorResponse carries field-level validation errors.
type FieldErrorResponse struct {
	Errors map[string]string `json:"errors"`
}

func RespondWithError(w http.ResponseWriter, code int, message string) {
	RespondWithJSON(w, code, StatusResponse{Status: code, Message: message})
}

func RespondWithFieldErrors(w http.ResponseWriter, fieldErrors map[string]string) {
	RespondWithJSON(w, http.StatusUnprocessableEntity, FieldErrorResponse{Errors: fieldErrors})
}

func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": "Failed to marshal JSON response"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
