package team

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tinhnguyen/internal/model/user"
	apphttp "tinhnguyen/internal/pkg/http"
	"tinhnguyen/internal/pkg/ctxutil"
)

// AssignAdminRequest is the admin assignment payload.
type AssignAdminRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

// AssignAdmin places a member into an admin position
// @Summary      Assign team admin
// @Description  Assigns an approved member to captain, deputy_1 or deputy_2 and promotes them to team_admin
// @Tags         team
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id        path      string              true  "team id"
// @Param        position  path      string              true  "captain / deputy_1 / deputy_2"
// @Param        request   body      AssignAdminRequest  true  "assignment payload"
// @Success      200       {object}  http.SuccessResponse
// @Failure      400       {object}  http.ErrorResponse
// @Failure      403       {object}  http.ErrorResponse
// @Failure      404       {object}  http.ErrorResponse
// @Failure      409       {object}  http.ErrorResponse
// @Router       /api/v1/admin/teams/{id}/admins/{position} [put]
func (h *Handler) AssignAdmin(c *gin.Context) {
	actorID, ok := ctxutil.GetUserID(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, apphttp.NewErrorResponse(apphttp.CodeUnauthorized, "unauthorized"))
		return
	}

	pos, err := user.ParsePosition(c.Param("position"))
	if err != nil {
		apphttp.Error(c, err)
		return
	}

	var req AssignAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apphttp.BadRequest(c, err.Error())
		return
	}

	if err := h.roster.AssignAdmin(c.Request.Context(), c.Param("id"), pos, req.UserID, actorID); err != nil {
		apphttp.Error(c, err)
		return
	}

	apphttp.OK(c, "team admin assigned", nil)
}
