package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"tinhnguyen/internal/service"
)

// RefreshTokenRequest is the token refresh payload.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// RefreshTokenResponseData is the token refresh response payload.
type RefreshTokenResponseData struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"` // seconds
	TokenType   string `json:"token_type"` // Bearer
}

// Refresh renews an access token
// @Summary      Refresh token
// @Description  Exchanges a refresh token for a new access token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      RefreshTokenRequest  true  "refresh payload"
// @Success      200      {object}  map[string]interface{}
// @Failure      400      {object}  ErrorResponse
// @Failure      401      {object}  ErrorResponse
// @Failure      500      {object}  ErrorResponse
// @Router       /api/v1/auth/refresh [post]
func (h *Handler) Refresh(c *gin.Context) {
	var req RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    40001,
			Message: "Invalid request body",
			Detail:  err.Error(),
		})
		return
	}

	ctx := c.Request.Context()
	resp, err := h.authService.RefreshToken(ctx, req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidToken):
			c.JSON(http.StatusUnauthorized, ErrorResponse{Code: 40102, Message: err.Error()})
		case errors.Is(err, service.ErrExpiredToken):
			c.JSON(http.StatusUnauthorized, ErrorResponse{Code: 40103, Message: err.Error()})
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusUnauthorized, ErrorResponse{Code: 40101, Message: err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, ErrorResponse{Code: 50001, Message: "failed to refresh token"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data": RefreshTokenResponseData{
			AccessToken: resp.AccessToken,
			ExpiresIn:   resp.ExpiresIn,
			TokenType:   resp.TokenType,
		},
	})
}
