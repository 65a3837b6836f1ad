package registration

import (
	"tinhnguyen/internal/service"
)

// Handler exposes the registration workflow endpoints: the applicant-facing
// submit and the admin review queue.
type Handler struct {
	registrations *service.RegistrationService
}

// NewHandler creates the registration handler.
func NewHandler(registrations *service.RegistrationService) *Handler {
	return &Handler{
		registrations: registrations,
	}
}
