package team

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apphttp "tinhnguyen/internal/pkg/http"
	"tinhnguyen/internal/pkg/ctxutil"
)

// CreateRequest is the team creation payload.
type CreateRequest struct {
	ID       string `json:"id" binding:"required"` // slug id, e.g. doi-21
	Name     string `json:"name" binding:"required"`
	ZaloLink string `json:"zalo_link,omitempty"`
}

// Create adds a team to the roster
// @Summary      Create team
// @Description  Creates a team document; normally done once by the seed-teams bootstrap
// @Tags         team
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      CreateRequest  true  "team payload"
// @Success      201      {object}  http.SuccessResponse
// @Failure      400      {object}  http.ErrorResponse
// @Failure      403      {object}  http.ErrorResponse
// @Failure      409      {object}  http.ErrorResponse
// @Router       /api/v1/admin/teams [post]
func (h *Handler) Create(c *gin.Context) {
	actorID, ok := ctxutil.GetUserID(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, apphttp.NewErrorResponse(apphttp.CodeUnauthorized, "unauthorized"))
		return
	}

	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apphttp.BadRequest(c, err.Error())
		return
	}

	created, err := h.roster.CreateTeam(c.Request.Context(), req.ID, req.Name, req.ZaloLink, actorID)
	if err != nil {
		apphttp.Error(c, err)
		return
	}

	apphttp.Created(c, "team created", created)
}

// RenameRequest is the team update payload. Empty fields are left unchanged.
type RenameRequest struct {
	Name     string `json:"name,omitempty"`
	ZaloLink string `json:"zalo_link,omitempty"`
}

// Rename updates a team's display fields
// @Summary      Rename team
// @Description  Updates the team name and zalo link; team admins can update their own team only
// @Tags         team
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string         true  "team id"
// @Param        request  body      RenameRequest  true  "update payload"
// @Success      200      {object}  http.SuccessResponse
// @Failure      400      {object}  http.ErrorResponse
// @Failure      403      {object}  http.ErrorResponse
// @Failure      404      {object}  http.ErrorResponse
// @Router       /api/v1/teams/{id} [patch]
func (h *Handler) Rename(c *gin.Context) {
	actorID, ok := ctxutil.GetUserID(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, apphttp.NewErrorResponse(apphttp.CodeUnauthorized, "unauthorized"))
		return
	}

	var req RenameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apphttp.BadRequest(c, err.Error())
		return
	}
	if req.Name == "" && req.ZaloLink == "" {
		apphttp.BadRequest(c, "nothing to update")
		return
	}

	if err := h.roster.Rename(c.Request.Context(), c.Param("id"), req.Name, req.ZaloLink, actorID); err != nil {
		apphttp.Error(c, err)
		return
	}

	apphttp.OK(c, "team updated", nil)
}
