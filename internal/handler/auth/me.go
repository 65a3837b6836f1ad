package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"tinhnguyen/internal/service"
)

// MeResponseData is the current-user response payload.
type MeResponseData struct {
	User        UserInfo        `json:"user"`
	Destination DestinationInfo `json:"destination"`
}

// GetMe returns the current user
// @Summary      Current user
// @Description  Returns the authenticated user's record and destination surface
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  ErrorResponse
// @Router       /api/v1/auth/me [get]
func (h *Handler) GetMe(c *gin.Context) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Code:    40101,
			Message: "missing authorization header",
		})
		return
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Code:    40101,
			Message: "Invalid authorization header",
		})
		return
	}

	ctx := c.Request.Context()
	u, err := h.authService.ValidateToken(ctx, parts[1])
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Code:    40102,
			Message: err.Error(),
		})
		return
	}

	dest, err := service.Route(u)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    50001,
			Message: "account is in an inconsistent state, contact an administrator",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data": MeResponseData{
			User:        toUserInfo(u),
			Destination: toDestinationInfo(dest),
		},
	})
}
