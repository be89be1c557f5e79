package handlers

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/apujo-dev/apujo/internal/media"
	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
)

func (h *Handler) imagePath(ctx *gin.Context) (string, string, bool) {
	category := ctx.Param("category")
	// Base strips any path traversal from the requested name.
	filename := filepath.Base(ctx.Param("filename"))

	if !media.KnownCategory(category) {
		return "", "", false
	}

	target := filepath.Join(h.cfg.UploadsRoot(), category, filename)
	info, err := os.Stat(target)

	if err != nil || info.IsDir() {
		return "", "", false
	}

	return target, filename, true
}

func (h *Handler) ServeImage(ctx *gin.Context) {
	target, _, ok := h.imagePath(ctx)

	if !ok {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Image not found"})
		return
	}

	// Content-Type comes from the stored bytes, not the requested name.
	if mtype, err := mimetype.DetectFile(target); err == nil {
		ctx.Header("Content-Type", mtype.String())
	}

	ctx.File(target)
}

// ServeImageBlob forces an attachment download of the stored file.
func (h *Handler) ServeImageBlob(ctx *gin.Context) {
	target, filename, ok := h.imagePath(ctx)

	if !ok {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Image not found"})
		return
	}

	ctx.Header("Content-Type", "application/octet-stream")
	ctx.FileAttachment(target, filename)
}
