package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/apujo-dev/apujo/internal/media"
	"github.com/apujo-dev/apujo/internal/utils"
	"github.com/gin-gonic/gin"
)

// UploadImage accepts a multipart file plus an optional category and stores
// the normalized result under the uploads tree.
func (h *Handler) UploadImage(ctx *gin.Context) {
	category := strings.ToLower(strings.TrimSpace(ctx.PostForm("category")))

	if category != "thoughts" && category != "works" {
		category = "thoughts"
	}

	file, err := ctx.FormFile("file")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}

	src, err := file.Open()

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Upload could not be read"})
		return
	}

	defer src.Close()

	upload, err := media.SaveUpload(src, file.Filename, category, h.cfg.UploadsRoot())

	if err != nil {
		if errors.Is(err, media.ErrUnreadableUpload) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Upload could not be read"})
			return
		}
		log.Printf("Failed to store upload: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store upload"})
		return
	}

	if username, err := utils.CurrentUsername(ctx); err == nil {
		log.Printf("Stored upload %s in %s for %s", upload.Filename, category, username)
	}

	ctx.JSON(http.StatusCreated, gin.H{"url": upload.URL})
}
