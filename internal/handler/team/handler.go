package team

import (
	"tinhnguyen/internal/service"
)

// Handler exposes the team roster endpoints.
type Handler struct {
	roster *service.RosterService
}

// NewHandler creates the team handler.
func NewHandler(roster *service.RosterService) *Handler {
	return &Handler{
		roster: roster,
	}
}
