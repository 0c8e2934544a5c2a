package response

import (
	"encoding/json"
	"net/http"

	"github.com/Rrens/coworking-reservation/internal/domain"
)

// Response represents a standard API response
type Response struct {
	Success    bool               `json:"success"`
	Count      *int               `json:"count,omitempty"`
	Pagination *domain.Pagination `json:"pagination,omitempty"`
	Data       any                `json:"data,omitempty"`
	Message    any                `json:"message,omitempty"`
	Token      string             `json:"token,omitempty"`
}

// Write sends resp as JSON with the given status
func Write(w http.ResponseWriter, status int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(resp)
}

// JSON sends a JSON response
func JSON(w http.ResponseWriter, status int, data any) {
	Write(w, status, Response{
		Success: status >= 200 && status < 300,
		Data:    data,
	})
}

// Error sends an error response. A nil message yields a bare {success:false}.
func Error(w http.ResponseWriter, status int, message any) {
	Write(w, status, Response{Success: false, Message: message})
}

// List sends a collection with its count and optional pagination hints
func List(w http.ResponseWriter, data any, count int, pagination *domain.Pagination) {
	Write(w, http.StatusOK, Response{
		Success:    true,
		Count:      &count,
		Pagination: pagination,
		Data:       data,
	})
}

// Token sends a freshly issued access token
func Token(w http.ResponseWriter, status int, token string) {
	Write(w, status, Response{Success: true, Token: token})
}

// Created sends a 201 Created response with data
func Created(w http.ResponseWriter, data any) {
	JSON(w, http.StatusCreated, data)
}

// OK sends a 200 OK response with data
func OK(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, data)
}

// Empty sends 200 with an empty data object, the shape used after deletes
func Empty(w http.ResponseWriter) {
	OK(w, struct{}{})
}

// BadRequest sends a 400 Bad Request response
func BadRequest(w http.ResponseWriter, message any) {
	Error(w, http.StatusBadRequest, message)
}

// Unauthorized sends a 401 Unauthorized response
func Unauthorized(w http.ResponseWriter, message any) {
	Error(w, http.StatusUnauthorized, message)
}

// Forbidden sends a 403 Forbidden response
func Forbidden(w http.ResponseWriter, message any) {
	Error(w, http.StatusForbidden, message)
}

// NotFound sends a 404 Not Found response
func NotFound(w http.ResponseWriter, message any) {
	Error(w, http.StatusNotFound, message)
}

// InternalError sends a 500 Internal Server Error response
func InternalError(w http.ResponseWriter, message any) {
	Error(w, http.StatusInternalServerError, message)
}
