package handler

import (
	"encoding/json"
	"net/http"
)

const (
	codeInvalidPayload = "invalid_payload"
	codeInvalidTenant  = "invalid_tenant"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, code, message string, details any) {
	respondJSON(w, status, errorResponse{Code: code, Message: message, Details: details})
}
