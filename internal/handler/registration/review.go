package registration

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	apphttp "tinhnguyen/internal/pkg/http"
	"tinhnguyen/internal/pkg/ctxutil"
)

// Approve resolves a pending request as approved
// @Summary      Approve registration
// @Description  Approves a pending request and promotes the applicant to member; resolved requests cannot be re-resolved
// @Tags         registration
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "request id"
// @Success      200  {object}  http.SuccessResponse
// @Failure      403  {object}  http.ErrorResponse
// @Failure      404  {object}  http.ErrorResponse
// @Failure      409  {object}  http.ErrorResponse
// @Router       /api/v1/admin/registrations/{id}/approve [post]
func (h *Handler) Approve(c *gin.Context) {
	h.resolve(c, h.registrations.Approve, "registration approved")
}

// Reject resolves a pending request as rejected
// @Summary      Reject registration
// @Description  Rejects a pending request; the applicant stays pending and may submit a new one
// @Tags         registration
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "request id"
// @Success      200  {object}  http.SuccessResponse
// @Failure      403  {object}  http.ErrorResponse
// @Failure      404  {object}  http.ErrorResponse
// @Failure      409  {object}  http.ErrorResponse
// @Router       /api/v1/admin/registrations/{id}/reject [post]
func (h *Handler) Reject(c *gin.Context) {
	h.resolve(c, h.registrations.Reject, "registration rejected")
}

func (h *Handler) resolve(c *gin.Context, fn func(ctx context.Context, requestID, actorID string) error, message string) {
	actorID, ok := ctxutil.GetUserID(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, apphttp.NewErrorResponse(apphttp.CodeUnauthorized, "unauthorized"))
		return
	}

	requestID := c.Param("id")
	if requestID == "" {
		apphttp.BadRequest(c, "request id is required")
		return
	}

	if err := fn(c.Request.Context(), requestID, actorID); err != nil {
		apphttp.Error(c, err)
		return
	}

	apphttp.OK(c, message, nil)
}
