package member

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apphttp "tinhnguyen/internal/pkg/http"
	"tinhnguyen/internal/pkg/ctxutil"
)

// 5 MiB is plenty for a PNG avatar or rendered card.
const maxImageSize = 5 << 20

// UploadResponseData carries the stored image URL.
type UploadResponseData struct {
	URL string `json:"url"`
}

// UploadAvatar stores the current user's avatar
// @Summary      Upload avatar
// @Description  Stores the avatar image for the authenticated user and records its URL
// @Tags         member
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        file  formData  file  true  "image file"
// @Success      200   {object}  http.SuccessResponse
// @Failure      400   {object}  http.ErrorResponse
// @Failure      401   {object}  http.ErrorResponse
// @Failure      503   {object}  http.ErrorResponse
// @Router       /api/v1/me/avatar [post]
func (h *Handler) UploadAvatar(c *gin.Context) {
	h.upload(c, h.members.UploadAvatar)
}

// UploadCard stores the current user's rendered ID card
// @Summary      Upload ID card
// @Description  Stores the rendered card image for the authenticated member and stamps the issue time
// @Tags         member
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        file  formData  file  true  "image file"
// @Success      200   {object}  http.SuccessResponse
// @Failure      400   {object}  http.ErrorResponse
// @Failure      401   {object}  http.ErrorResponse
// @Failure      409   {object}  http.ErrorResponse
// @Failure      503   {object}  http.ErrorResponse
// @Router       /api/v1/me/card [post]
func (h *Handler) UploadCard(c *gin.Context) {
	h.upload(c, h.members.UploadCard)
}

// CardURL returns a signed download link for the current user's card
// @Summary      Card download link
// @Description  Returns a time-limited download URL for the authenticated user's issued card
// @Tags         member
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  http.SuccessResponse
// @Failure      401  {object}  http.ErrorResponse
// @Failure      404  {object}  http.ErrorResponse
// @Router       /api/v1/me/card/url [get]
func (h *Handler) CardURL(c *gin.Context) {
	userID, ok := ctxutil.GetUserID(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, apphttp.NewErrorResponse(apphttp.CodeUnauthorized, "unauthorized"))
		return
	}

	url, err := h.members.CardDownloadURL(c.Request.Context(), userID, 15*time.Minute)
	if err != nil {
		apphttp.Error(c, err)
		return
	}

	apphttp.OK(c, "success", UploadResponseData{URL: url})
}

func (h *Handler) upload(c *gin.Context, fn func(ctx context.Context, userID string, data io.Reader, contentType string) (string, error)) {
	userID, ok := ctxutil.GetUserID(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, apphttp.NewErrorResponse(apphttp.CodeUnauthorized, "unauthorized"))
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		apphttp.BadRequest(c, "file field is required")
		return
	}
	if fileHeader.Size > maxImageSize {
		apphttp.BadRequest(c, "image exceeds the 5 MiB limit")
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType != "image/png" && contentType != "image/jpeg" {
		apphttp.BadRequest(c, "only png and jpeg images are accepted")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		apphttp.BadRequest(c, "failed to read uploaded file")
		return
	}
	defer file.Close()

	url, err := fn(c.Request.Context(), userID, file, contentType)
	if err != nil {
		apphttp.Error(c, err)
		return
	}

	apphttp.OK(c, "uploaded", UploadResponseData{URL: url})
}
