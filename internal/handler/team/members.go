package team

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"tinhnguyen/internal/model/user"
	apphttp "tinhnguyen/internal/pkg/http"
	"tinhnguyen/internal/pkg/ctxutil"
)

// MemberInfo is one roster entry.
type MemberInfo struct {
	ID           string `json:"id"`
	FullName     string `json:"full_name,omitempty"`
	StudentID    string `json:"student_id,omitempty"`
	Role         string `json:"role"`
	TeamPosition string `json:"team_position,omitempty"`
	AvatarURL    string `json:"avatar_url,omitempty"`
	HasCard      bool   `json:"has_card"`
}

// MembersResponseData is a page of a team's roster.
type MembersResponseData struct {
	Members  []MemberInfo `json:"members"`
	Total    int64        `json:"total"`
	Page     int64        `json:"page"`
	PageSize int64        `json:"page_size"`
}

// ListMembers returns a team's roster page
// @Summary      List team members
// @Description  Returns the members of a team; team admins see their own team only
// @Tags         team
// @Produce      json
// @Security     BearerAuth
// @Param        id         path      string  true   "team id"
// @Param        page       query     int     false  "page number, 1-based"
// @Param        page_size  query     int     false  "page size, default 20"
// @Success      200        {object}  http.SuccessResponse
// @Failure      403        {object}  http.ErrorResponse
// @Router       /api/v1/teams/{id}/members [get]
func (h *Handler) ListMembers(c *gin.Context) {
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

	members, total, err := h.roster.ListMembers(c.Request.Context(), c.Param("id"), actorID, page, pageSize)
	if err != nil {
		apphttp.Error(c, err)
		return
	}

	infos := make([]MemberInfo, 0, len(members))
	for _, m := range members {
		infos = append(infos, toMemberInfo(m))
	}

	apphttp.OK(c, "success", MembersResponseData{
		Members:  infos,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}

// AddMemberRequest is the add-member payload.
type AddMemberRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

// AddMember places a member into the team
// @Summary      Add team member
// @Description  Places an approved member into the team; team admins can add to their own team only
// @Tags         team
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string            true  "team id"
// @Param        request  body      AddMemberRequest  true  "member payload"
// @Success      200      {object}  http.SuccessResponse
// @Failure      403      {object}  http.ErrorResponse
// @Failure      404      {object}  http.ErrorResponse
// @Failure      409      {object}  http.ErrorResponse
// @Router       /api/v1/teams/{id}/members [post]
func (h *Handler) AddMember(c *gin.Context) {
	actorID, ok := ctxutil.GetUserID(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, apphttp.NewErrorResponse(apphttp.CodeUnauthorized, "unauthorized"))
		return
	}

	var req AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apphttp.BadRequest(c, err.Error())
		return
	}

	if err := h.roster.AddMember(c.Request.Context(), c.Param("id"), req.UserID, actorID); err != nil {
		apphttp.Error(c, err)
		return
	}

	apphttp.OK(c, "member added", nil)
}

func toMemberInfo(u *user.User) MemberInfo {
	info := MemberInfo{
		ID:           u.ID,
		Role:         u.Role.String(),
		TeamPosition: u.TeamPosition.String(),
		AvatarURL:    u.AvatarURL,
		HasCard:      u.CardURL != "",
	}
	if u.Profile != nil {
		info.FullName = u.Profile.FullName
		info.StudentID = u.Profile.StudentID
	}
	return info
}
