package member

import (
	"strconv"

	"github.com/gin-gonic/gin"

	apphttp "tinhnguyen/internal/pkg/http"
)

// Lookup searches the public member directory
// @Summary      Public member lookup
// @Description  Searches approved members by exact student id or name prefix; no authentication required
// @Tags         member
// @Produce      json
// @Param        student_id  query     string  false  "exact student id"
// @Param        name        query     string  false  "name prefix, case-insensitive"
// @Param        limit       query     int     false  "max results, default 20"
// @Success      200         {object}  http.SuccessResponse
// @Failure      400         {object}  http.ErrorResponse
// @Router       /api/v1/lookup [get]
func (h *Handler) Lookup(c *gin.Context) {
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "20"), 10, 64)

	found, err := h.members.Lookup(c.Request.Context(), c.Query("student_id"), c.Query("name"), limit)
	if err != nil {
		apphttp.Error(c, err)
		return
	}

	apphttp.OK(c, "success", found)
}
