// Package utils provides utility functions and helpers for the application.
// This file implements a standardized API response system that ensures
// consistent response formats across all API endpoints.
package utils

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/wecomkit/rulesync/internal/constants"
)

// Response represents a standardized API response.
// All API endpoints return responses in this format for consistency.
type Response struct {
	Success bool        `json:"success"`         // Whether the request was successful
	Data    interface{} `json:"data,omitempty"`  // The response data (omitted for error responses)
	Error   *ErrorInfo  `json:"error,omitempty"` // Error information (omitted for successful responses)
	Meta    *MetaInfo   `json:"meta,omitempty"`  // Metadata such as pagination information
}

// ErrorInfo represents error information in the response.
type ErrorInfo struct {
	Code    string            `json:"code"`              // A machine-readable error code
	Message string            `json:"message"`           // A human-readable error message
	Details map[string]string `json:"details,omitempty"` // Additional details about the error
}

// MetaInfo represents metadata in the response, primarily pagination.
type MetaInfo struct {
	Page       int `json:"page,omitempty"`
	PageSize   int `json:"page_size,omitempty"`
	TotalItems int `json:"total_items,omitempty"`
	TotalPages int `json:"total_pages,omitempty"`
}

// PaginationParams contains parameters for pagination.
type PaginationParams struct {
	Page     int
	PageSize int
}

// JSON sends a JSON response with the given status code and data.
func JSON(w http.ResponseWriter, statusCode int, data interface{}) {
	response := Response{
		Success: statusCode >= 200 && statusCode < 300,
		Data:    data,
	}

	SendJSON(w, statusCode, response)
}

// Error sends an error response with the given status code, code, and message.
func Error(w http.ResponseWriter, statusCode int, code, message string, details map[string]string) {
	response := Response{
		Success: false,
		Error: &ErrorInfo{
			Code:    code,
			Message: message,
			Details: details,
		},
	}

	SendJSON(w, statusCode, response)
}

// ErrorFromAppError sends an error response based on an AppError.
func ErrorFromAppError(w http.ResponseWriter, err *AppError) {
	code := "internal_error"
	switch {
	case IsNotFoundError(err):
		code = "not_found"
	case IsValidationError(err):
		code = "validation_error"
	case IsDuplicateError(err):
		code = "duplicate_resource"
	case err.StatusCode == http.StatusUnauthorized:
		code = "unauthorized"
	case err.StatusCode == http.StatusForbidden:
		code = "forbidden"
	case err.StatusCode == http.StatusBadRequest:
		code = "bad_request"
	case err.StatusCode == http.StatusBadGateway:
		code = "remote_api_error"
	}

	var details map[string]string
	if err.Field != "" {
		details = map[string]string{err.Field: err.Message}
	}

	if err.DevInfo != "" {
		log.Debug().Str("dev_info", err.DevInfo).Msg("Error details")
	}

	Error(w, err.StatusCode, code, err.Message, details)
}

// Paginated sends a paginated response with metadata.
func Paginated(w http.ResponseWriter, statusCode int, data interface{}, page, pageSize, totalItems int) {
	totalPages := totalItems / pageSize
	if totalItems%pageSize > 0 {
		totalPages++
	}

	response := Response{
		Success: true,
		Data:    data,
		Meta: &MetaInfo{
			Page:       page,
			PageSize:   pageSize,
			TotalItems: totalItems,
			TotalPages: totalPages,
		},
	}

	SendJSON(w, statusCode, response)
}

// SendJSON marshals the data and writes it to the response writer.
func SendJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// NoContent sends a 204 No Content response.
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// BadRequest sends a 400 Bad Request error response.
func BadRequest(w http.ResponseWriter, message string, details map[string]string) {
	Error(w, http.StatusBadRequest, "bad_request", message, details)
}

// Unauthorized sends a 401 Unauthorized error response.
func Unauthorized(w http.ResponseWriter, message string) {
	if message == "" {
		message = constants.MsgAuthRequired
	}
	Error(w, http.StatusUnauthorized, "unauthorized", message, nil)
}

// NotFound sends a 404 Not Found error response.
func NotFound(w http.ResponseWriter, message string) {
	if message == "" {
		message = "The requested resource was not found"
	}
	Error(w, http.StatusNotFound, "not_found", message, nil)
}

// InternalServerError sends a 500 Internal Server Error response.
func InternalServerError(w http.ResponseWriter, err error) {
	if err != nil {
		log.Error().Err(err).Msg("Internal server error")
	}
	Error(w, http.StatusInternalServerError, "internal_error", "An internal server error occurred", nil)
}

// GetPaginationParams extracts pagination parameters from a request.
// Out-of-range values are clamped to the configured limits.
func GetPaginationParams(r *http.Request) PaginationParams {
	params := PaginationParams{
		Page:     constants.DefaultPage,
		PageSize: constants.DefaultPageSize,
	}

	if pageStr := r.URL.Query().Get("page"); pageStr != "" {
		if page, err := strconv.Atoi(pageStr); err == nil && page > 0 {
			params.Page = page
		}
	}

	if sizeStr := r.URL.Query().Get("page_size"); sizeStr != "" {
		if size, err := strconv.Atoi(sizeStr); err == nil {
			if size < constants.MinPageSize {
				size = constants.MinPageSize
			}
			if size > constants.MaxPageSize {
				size = constants.MaxPageSize
			}
			params.PageSize = size
		}
	}

	return params
}
