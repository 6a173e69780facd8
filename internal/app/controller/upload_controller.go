package controller

import (
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	apperrors "github.com/narayanji/distributor-app/internal/errors"
	"github.com/narayanji/distributor-app/internal/middleware"
	"github.com/narayanji/distributor-app/internal/storage"
)

type UploadController struct {
	storage *storage.S3Storage
}

func NewUploadController(s3Storage *storage.S3Storage) *UploadController {
	return &UploadController{storage: s3Storage}
}

type presignUploadRequest struct {
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
}

// PresignUpload handles POST /admin/uploads. The back office uploads the
// image directly to S3 with the returned URL, then saves public_url on the
// product.
func (ctrl *UploadController) PresignUpload(c *gin.Context) {
	var req presignUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationRequired, "Filename and content type are required")
		return
	}

	if !storage.AllowedImageExtension(filepath.Ext(req.Filename)) {
		apperrors.BadRequest(c, apperrors.UploadInvalidFileType, "Only JPG, PNG and WebP images are allowed")
		return
	}

	uploadURL, publicURL, err := ctrl.storage.PresignUpload(c.Request.Context(), req.Filename, req.ContentType)
	if err != nil {
		middleware.GetLoggerFromContext(c).Error("Failed to presign upload", err, nil)
		apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.UploadFailed,
			"Could not prepare the upload")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"upload_url": uploadURL,
		"public_url": publicURL,
	})
}
