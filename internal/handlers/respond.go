package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"mentora-backend/internal/models"
	"mentora-backend/internal/services"
)

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func errorResp(code, message string, r *http.Request) models.ErrorResponse {
	return models.ErrorResponse{
		Error: models.APIError{
			Code:      code,
			Message:   message,
			RequestID: r.Header.Get("X-Request-ID"),
		},
	}
}

func errorRespWithFields(code, message string, fields map[string]string, r *http.Request) models.ErrorResponse {
	return models.ErrorResponse{
		Error: models.APIError{
			Code:      code,
			Message:   message,
			Fields:    fields,
			RequestID: r.Header.Get("X-Request-ID"),
		},
	}
}

func handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch e := err.(type) {
	case *services.ValidationError:
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed", e.Fields, r))
	case *services.UpstreamError:
		msg := "Failed to get AI response"
		if services.IsUpstreamTimeout(e) {
			msg = "AI provider did not respond in time"
		}
		writeJSON(w, http.StatusInternalServerError, errorResp("AI_ERROR", msg, r))
	case *services.StorageError:
		writeJSON(w, http.StatusInternalServerError, errorResp("STORAGE_ERROR", "Chat history store is unavailable", r))
	default:
		log.Printf("Unhandled service error: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "An unexpected error occurred", r))
	}
}
