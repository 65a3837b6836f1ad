package team

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"tinhnguyen/internal/model/team"
	apphttp "tinhnguyen/internal/pkg/http"
)

// TeamInfo is the team representation with its derived counters.
type TeamInfo struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	ZaloLink string      `json:"zalo_link,omitempty"`
	Admins   team.Admins `json:"admins"`
	Stats    *team.Stats `json:"stats,omitempty"`
}

// List returns all teams
// @Summary      List teams
// @Description  Returns the full team roster
// @Tags         team
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  http.SuccessResponse
// @Router       /api/v1/teams [get]
func (h *Handler) List(c *gin.Context) {
	teams, err := h.roster.ListTeams(c.Request.Context())
	if err != nil {
		apphttp.Error(c, err)
		return
	}

	infos := make([]TeamInfo, 0, len(teams))
	for _, t := range teams {
		infos = append(infos, TeamInfo{
			ID:       t.ID,
			Name:     t.Name,
			ZaloLink: t.ZaloLink,
			Admins:   t.Admins,
		})
	}
	apphttp.OK(c, "success", infos)
}

// Get returns one team with stats
// @Summary      Get team
// @Description  Returns a team with its member and issued-card counts
// @Tags         team
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "team id"
// @Success      200  {object}  http.SuccessResponse
// @Failure      404  {object}  http.ErrorResponse
// @Router       /api/v1/teams/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	teamID := c.Param("id")

	t, err := h.roster.GetTeam(c.Request.Context(), teamID)
	if err != nil {
		apphttp.Error(c, err)
		return
	}

	info := TeamInfo{
		ID:       t.ID,
		Name:     t.Name,
		ZaloLink: t.ZaloLink,
		Admins:   t.Admins,
	}

	// Stats are best effort; the team itself still renders without them.
	if stats, err := h.roster.Stats(c.Request.Context(), teamID); err == nil {
		info.Stats = stats
	} else {
		log.Warn().Err(err).Str("team_id", teamID).Msg("failed to load team stats")
	}

	apphttp.OK(c, "success", info)
}
