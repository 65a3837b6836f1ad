package registration

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tinhnguyen/internal/model/user"
	apphttp "tinhnguyen/internal/pkg/http"
	"tinhnguyen/internal/pkg/ctxutil"
)

// SubmitRequest is the registration payload.
type SubmitRequest struct {
	FullName  string `json:"full_name" binding:"required"`
	StudentID string `json:"student_id" binding:"required"`
	Faculty   string `json:"faculty,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// SubmitResponseData is the registration response payload.
type SubmitResponseData struct {
	RequestID string `json:"request_id"`
	Status    string `json:"status"` // always pending on submit
}

// Submit files a registration request
// @Summary      Submit registration
// @Description  Files a membership request for the authenticated pending user; one open request at a time
// @Tags         registration
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      SubmitRequest  true  "applicant profile"
// @Success      201      {object}  http.SuccessResponse
// @Failure      400      {object}  http.ErrorResponse
// @Failure      401      {object}  http.ErrorResponse
// @Failure      409      {object}  http.ErrorResponse
// @Router       /api/v1/registrations [post]
func (h *Handler) Submit(c *gin.Context) {
	userID, ok := ctxutil.GetUserID(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, apphttp.NewErrorResponse(apphttp.CodeUnauthorized, "unauthorized"))
		return
	}

	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apphttp.BadRequest(c, err.Error())
		return
	}

	created, err := h.registrations.Submit(c.Request.Context(), userID, user.Profile{
		FullName:  req.FullName,
		StudentID: req.StudentID,
		Faculty:   req.Faculty,
		Phone:     req.Phone,
	})
	if err != nil {
		apphttp.Error(c, err)
		return
	}

	apphttp.Created(c, "registration submitted", SubmitResponseData{
		RequestID: created.ID,
		Status:    created.Status.String(),
	})
}
