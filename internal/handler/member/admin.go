package member

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"tinhnguyen/internal/model/user"
	apphttp "tinhnguyen/internal/pkg/http"
	"tinhnguyen/internal/pkg/ctxutil"
)

// UsersResponseData is a page of the org-wide user directory.
type UsersResponseData struct {
	Users    []*user.User `json:"users"`
	Total    int64        `json:"total"`
	Page     int64        `json:"page"`
	PageSize int64        `json:"page_size"`
}

// ListUsers returns the org-wide user directory
// @Summary      List users
// @Description  Returns all users, optionally filtered by role
// @Tags         member
// @Produce      json
// @Security     BearerAuth
// @Param        role       query     string  false  "pending / member / team_admin / super_admin"
// @Param        page       query     int     false  "page number, 1-based"
// @Param        page_size  query     int     false  "page size, default 20"
// @Success      200        {object}  http.SuccessResponse
// @Failure      400        {object}  http.ErrorResponse
// @Failure      403        {object}  http.ErrorResponse
// @Router       /api/v1/admin/users [get]
func (h *Handler) ListUsers(c *gin.Context) {
	actorID, ok := ctxutil.GetUserID(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, apphttp.NewErrorResponse(apphttp.CodeUnauthorized, "unauthorized"))
		return
	}

	page, _ := strconv.ParseInt(c.DefaultQuery("page", "1"), 10, 64)
	pageSize, _ := strconv.ParseInt(c.DefaultQuery("page_size", "20"), 10, 64)
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	users, total, err := h.members.ListUsers(c.Request.Context(), actorID, user.Role(c.Query("role")), page, pageSize)
	if err != nil {
		apphttp.Error(c, err)
		return
	}

	apphttp.OK(c, "success", UsersResponseData{
		Users:    users,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}

// RetireUser soft-deletes an account
// @Summary      Retire user
// @Description  Soft-deletes an account and revokes its sessions; the record is kept for audit
// @Tags         member
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "user id"
// @Success      200  {object}  http.SuccessResponse
// @Failure      403  {object}  http.ErrorResponse
// @Failure      404  {object}  http.ErrorResponse
// @Failure      409  {object}  http.ErrorResponse
// @Router       /api/v1/admin/users/{id} [delete]
func (h *Handler) RetireUser(c *gin.Context) {
	actorID, ok := ctxutil.GetUserID(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, apphttp.NewErrorResponse(apphttp.CodeUnauthorized, "unauthorized"))
		return
	}

	if err := h.members.RetireUser(c.Request.Context(), c.Param("id"), actorID); err != nil {
		apphttp.Error(c, err)
		return
	}

	apphttp.OK(c, "user retired", nil)
}
