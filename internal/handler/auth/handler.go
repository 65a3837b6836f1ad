package auth

import (
	"tinhnguyen/internal/service"
)

// Handler exposes the authentication endpoints. All auth handler methods
// go through this struct to reach the service.
type Handler struct {
	authService *service.AuthService
}

// NewHandler creates the auth handler.
func NewHandler(authService *service.AuthService) *Handler {
	return &Handler{
		authService: authService,
	}
}
