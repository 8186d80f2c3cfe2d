package pkg

import (
	"encoding/json"
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"
)

var ContentType = struct {
	JSON string
	Text string
}{
	JSON: "application/json",
	Text: "text/plain; charset=utf-8",
}

// MessageResponse is the body of every error response and of
// plain acknowledgements (e.g. "deleted")
type MessageResponse struct {
	Message string `json:"message"`
}

func WriteResponse(w http.ResponseWriter, contentType, message string, statusCode int) {
	WriteResponseBytes(w, contentType, []byte(message), statusCode)
}

func WriteResponseBytes(w http.ResponseWriter, contentType string, message []byte, statusCode int) {
	if contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}

	w.WriteHeader(statusCode)
	if _, err := w.Write(message); err != nil {
		log.Errorf("failed to write response [%s]: %s", message, err)
	}
}

func WriteTextResponseOK(w http.ResponseWriter, message string) {
	WriteResponse(w, ContentType.Text, message, http.StatusOK)
}

// WriteJSON marshals v and writes it with the given status code
func WriteJSON(w http.ResponseWriter, v any, statusCode int) {
	respBytes, err := json.Marshal(v)
	if err != nil {
		log.Errorf("marshal response %T: %s", v, err)
		WriteJSONError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	WriteResponseBytes(w, ContentType.JSON, respBytes, statusCode)
}

func WriteJSONOK(w http.ResponseWriter, v any) {
	WriteJSON(w, v, http.StatusOK)
}

func WriteJSONMessage(w http.ResponseWriter, message string, statusCode int) {
	WriteJSON(w, MessageResponse{Message: message}, statusCode)
}

// WriteJSONError is the JSON counterpart of http.Error
func WriteJSONError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("X-Content-Type-Options", "nosniff")
	WriteJSONMessage(w, message, statusCode)
}

type ValidationErrorResponse struct {
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// WriteJSONValidationError responds 400, listing the offending fields when err is a *ValidationError
func WriteJSONValidationError(w http.ResponseWriter, err error) {
	resp := ValidationErrorResponse{Message: "validation failed"}
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		resp.Fields = validationErr.Fields
	}
	w.Header().Set("X-Content-Type-Options", "nosniff")
	WriteJSON(w, resp, http.StatusBadRequest)
}
