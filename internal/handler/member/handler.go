package member

import (
	"tinhnguyen/internal/service"
)

// Handler exposes the member directory endpoints: the public lookup, the
// self-service image uploads and the org-wide user administration.
type Handler struct {
	members *service.MemberService
}

// NewHandler creates the member handler.
func NewHandler(members *service.MemberService) *Handler {
	return &Handler{
		members: members,
	}
}
