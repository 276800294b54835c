// Package dto provides data transfer objects for the HTTP API.
package dto

import "assettrack/internal/core/id"

// IDResponse for create operations.
type IDResponse struct {
	ID string `json:"id"`
}

// NewIDResponse creates ID response.
func NewIDResponse(i id.ID) IDResponse {
	return IDResponse{ID: i.String()}
}

// SuccessResponse for operations without data.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// ErrorResponse for error details.
type ErrorResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}
