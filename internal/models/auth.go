package models

import "encoding/json"

// Role values understood by the backend login endpoint.
const (
	RoleStudent = "student"
	RoleAdmin   = "admin"
)

// LoginRequest is sent to POST /api/login.
type LoginRequest struct {
	UserID   string `json:"userId" validate:"required"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"required,oneof=student admin"`
}

// LoginResponse carries the opaque user object returned by the backend.
type LoginResponse struct {
	User json.RawMessage `json:"user"`
}
