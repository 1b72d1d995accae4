// Package dto provides Data Transfer Objects for API requests/responses.
package dto

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

// CodeLabelResponse wraps a code→label mapping with its size, the common
// shape of catalog and search results.
type CodeLabelResponse struct {
	Count int               `json:"count"`
	Items map[string]string `json:"items"`
}

// NewCodeLabelResponse creates a code→label response.
func NewCodeLabelResponse(items map[string]string) CodeLabelResponse {
	return CodeLabelResponse{Count: len(items), Items: items}
}
