package registration

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"tinhnguyen/internal/model/registration"
	apphttp "tinhnguyen/internal/pkg/http"
	"tinhnguyen/internal/pkg/ctxutil"
)

// ListResponseData is the review queue page.
type ListResponseData struct {
	Requests []*registration.Request `json:"requests"`
	Total    int64                   `json:"total"`
	Page     int64                   `json:"page"`
	PageSize int64                   `json:"page_size"`
}

// List returns the review queue
// @Summary      List registration requests
// @Description  Returns the review queue, oldest first, optionally filtered by status
// @Tags         registration
// @Produce      json
// @Security     BearerAuth
// @Param        status     query     string  false  "pending / approved / rejected"
// @Param        page       query     int     false  "page number, 1-based"
// @Param        page_size  query     int     false  "page size, default 20"
// @Success      200        {object}  http.SuccessResponse
// @Failure      400        {object}  http.ErrorResponse
// @Failure      403        {object}  http.ErrorResponse
// @Router       /api/v1/admin/registrations [get]
func (h *Handler) List(c *gin.Context) {
	actorID, ok := ctxutil.GetUserID(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, apphttp.NewErrorResponse(apphttp.CodeUnauthorized, "unauthorized"))
		return
	}

	page, pageSize := pagination(c)
	status := registration.Status(c.Query("status"))

	requests, total, err := h.registrations.ListRequests(c.Request.Context(), actorID, status, page, pageSize)
	if err != nil {
		apphttp.Error(c, err)
		return
	}

	apphttp.OK(c, "success", ListResponseData{
		Requests: requests,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}

func pagination(c *gin.Context) (page, pageSize int64) {
	page, _ = strconv.ParseInt(c.DefaultQuery("page", "1"), 10, 64)
	pageSize, _ = strconv.ParseInt(c.DefaultQuery("page_size", "20"), 10, 64)
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}
