package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"tinhnguyen/internal/service"
)

// RegisterRequest is the sign-up payload.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`    // login email
	Password string `json:"password" binding:"required,min=6"` // at least 6 characters
}

// RegisterResponseData is the sign-up response payload.
type RegisterResponseData struct {
	UserID      string          `json:"user_id"`
	Email       string          `json:"email"`
	Role        string          `json:"role"` // always pending at sign-up
	Destination DestinationInfo `json:"destination"`
}

// Register creates an account
// @Summary      Sign up
// @Description  Creates an account with the pending role; membership is granted through the registration approval workflow
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      RegisterRequest  true  "sign-up payload"
// @Success      201      {object}  map[string]interface{}
// @Failure      400      {object}  ErrorResponse
// @Failure      409      {object}  ErrorResponse
// @Failure      500      {object}  ErrorResponse
// @Router       /api/v1/auth/register [post]
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    40001,
			Message: "Invalid request body",
			Detail:  err.Error(),
		})
		return
	}

	ctx := c.Request.Context()
	resp, err := h.authService.Register(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			c.JSON(http.StatusConflict, ErrorResponse{
				Code:    40901,
				Message: err.Error(),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    50001,
			Message: "failed to register",
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"code":    0,
		"message": "registered, submit your registration to become a member",
		"data": RegisterResponseData{
			UserID:      resp.UserID,
			Email:       resp.Email,
			Role:        resp.Role,
			Destination: toDestinationInfo(resp.Destination),
		},
	})
}
