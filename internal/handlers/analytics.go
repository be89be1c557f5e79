package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/apujo-dev/apujo/db"
	"github.com/apujo-dev/apujo/internal/media"
	"github.com/apujo-dev/apujo/internal/models"
	"github.com/apujo-dev/apujo/internal/validate"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Analytics are created and updated via multipart form data because each
// row carries an uploaded report file alongside its fields.
type CreateAnalyticForm struct {
	Title     string `form:"title"`
	Slug      string `form:"slug"`
	Excerpt   string `form:"excerpt"`
	Tags      string `form:"tags"`
	Published string `form:"published"`
}

type UpdateAnalyticForm struct {
	Title     *string `form:"title"`
	NewSlug   *string `form:"new_slug"`
	Excerpt   *string `form:"excerpt"`
	Tags      *string `form:"tags"`
	Published *string `form:"published"`
}

type AnalyticResponse struct {
	ID          uint       `json:"id"`
	Slug        string     `json:"slug"`
	Title       string     `json:"title"`
	Excerpt     string     `json:"excerpt"`
	FileURL     string     `json:"file_url"`
	FileType    string     `json:"file_type"`
	Published   bool       `json:"published"`
	PublishedAt *time.Time `json:"published_at"`
	Tags        []string   `json:"tags"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func analyticResponse(analytic *models.Analytic) AnalyticResponse {
	return AnalyticResponse{
		ID:          analytic.ID,
		Slug:        analytic.Slug,
		Title:       analytic.Title,
		Excerpt:     analytic.Excerpt,
		FileURL:     analytic.FileURL,
		FileType:    analytic.FileType,
		Published:   analytic.Published,
		PublishedAt: analytic.PublishedAt,
		Tags:        models.DecodeStringList(analytic.Tags),
		CreatedAt:   analytic.CreatedAt,
		UpdatedAt:   analytic.UpdatedAt,
	}
}

// parseFormTags accepts a JSON array or a comma-separated fallback.
func parseFormTags(raw string) []string {
	var tags []string

	if err := json.Unmarshal([]byte(raw), &tags); err == nil {
		return tags
	}

	for _, tag := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(tag); trimmed != "" {
			tags = append(tags, trimmed)
		}
	}

	return tags
}

func parseFormBool(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

func (h *Handler) saveAnalyticFile(file *multipart.FileHeader) (*media.Upload, error) {
	src, err := file.Open()

	if err != nil {
		return nil, media.ErrUnreadableUpload
	}

	defer src.Close()

	return media.SaveUpload(src, file.Filename, "analytics", h.cfg.UploadsRoot())
}

func (h *Handler) ListAnalytics(ctx *gin.Context) {
	skip, limit := pagination(ctx)

	var analytics []models.Analytic

	if err := db.DB.Order("created_at DESC").Limit(limit).Offset(skip).Find(&analytics).Error; err != nil {
		log.Printf("Failed to list analytics: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve analytics"})
		return
	}

	response := make([]AnalyticResponse, 0, len(analytics))

	for i := range analytics {
		response = append(response, analyticResponse(&analytics[i]))
	}

	ctx.JSON(http.StatusOK, response)
}

func (h *Handler) GetAnalytic(ctx *gin.Context) {
	var analytic models.Analytic

	err := db.DB.Where("slug = ?", ctx.Param("slug")).First(&analytic).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Analytic not found"})
		} else {
			log.Printf("Failed to fetch analytic: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve analytic"})
		}
		return
	}

	ctx.JSON(http.StatusOK, analyticResponse(&analytic))
}

func (h *Handler) CreateAnalytic(ctx *gin.Context) {
	var form CreateAnalyticForm

	if err := ctx.ShouldBind(&form); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if form.Title == "" {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": "title is required"})
		return
	}

	if form.Slug == "" {
		form.Slug = deriveSlug(form.Title)
	}

	if err := validate.Slug(form.Slug); err != nil {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	if err := validate.Title(form.Title); err != nil {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	file, err := ctx.FormFile("file")

	if err != nil {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": "file is required"})
		return
	}

	upload, err := h.saveAnalyticFile(file)

	if err != nil {
		if errors.Is(err, media.ErrUnreadableUpload) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Upload could not be read"})
			return
		}
		log.Printf("Failed to save analytic file: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store file"})
		return
	}

	published := parseFormBool(form.Published)

	var publishedAt *time.Time

	if published {
		now := time.Now().UTC()
		publishedAt = &now
	}

	var tags []string

	if form.Tags != "" {
		tags = parseFormTags(form.Tags)
	}

	analytic := models.Analytic{
		Slug:        form.Slug,
		Title:       form.Title,
		Excerpt:     form.Excerpt,
		FileURL:     upload.URL,
		FileType:    upload.MIME,
		Published:   published,
		PublishedAt: publishedAt,
		Tags:        models.EncodeStringList(tags),
	}

	if err := db.DB.Create(&analytic).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			ctx.JSON(http.StatusConflict, gin.H{"error": "Resource conflict: possibly duplicate slug"})
			return
		}
		log.Printf("Failed to create analytic: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create analytic"})
		return
	}

	ctx.JSON(http.StatusCreated, analyticResponse(&analytic))
}

func (h *Handler) UpdateAnalytic(ctx *gin.Context) {
	var form UpdateAnalyticForm

	if err := ctx.ShouldBind(&form); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	updates := make(map[string]interface{})

	if form.NewSlug != nil {
		if err := validate.Slug(*form.NewSlug); err != nil {
			ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		updates["slug"] = *form.NewSlug
	}

	if form.Title != nil {
		if err := validate.Title(*form.Title); err != nil {
			ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		updates["title"] = *form.Title
	}

	if form.Excerpt != nil {
		updates["excerpt"] = *form.Excerpt
	}

	if form.Tags != nil {
		updates["tags"] = models.EncodeStringList(parseFormTags(*form.Tags))
	}

	if form.Published != nil {
		published := parseFormBool(*form.Published)
		updates["published"] = published

		if published {
			updates["published_at"] = time.Now().UTC()
		} else {
			updates["published_at"] = nil
		}
	}

	if file, err := ctx.FormFile("file"); err == nil {
		upload, err := h.saveAnalyticFile(file)

		if err != nil {
			if errors.Is(err, media.ErrUnreadableUpload) {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": "Upload could not be read"})
				return
			}
			log.Printf("Failed to save analytic file: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store file"})
			return
		}

		updates["file_url"] = upload.URL
		updates["file_type"] = upload.MIME
	}

	if len(updates) == 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "No fields to update"})
		return
	}

	var analytic models.Analytic

	err := db.DB.Where("slug = ?", ctx.Param("slug")).First(&analytic).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Analytic not found"})
		} else {
			log.Printf("Failed to fetch analytic: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve analytic"})
		}
		return
	}

	oldFile := analytic.FileURL

	if err := db.DB.Model(&analytic).Updates(updates).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			ctx.JSON(http.StatusConflict, gin.H{"error": "Resource conflict: possibly duplicate slug"})
			return
		}
		log.Printf("Failed to update analytic: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update analytic"})
		return
	}

	if newFile, ok := updates["file_url"]; ok {
		if oldFile != "" && oldFile != newFile.(string) {
			media.Cleanup(h.cfg.UploadsRoot(), "analytics", oldFile)
		}
	}

	if err := db.DB.First(&analytic, analytic.ID).Error; err != nil {
		log.Printf("Failed to reload analytic: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve analytic"})
		return
	}

	ctx.JSON(http.StatusOK, analyticResponse(&analytic))
}

func (h *Handler) DeleteAnalytic(ctx *gin.Context) {
	var analytic models.Analytic

	err := db.DB.Where("slug = ?", ctx.Param("slug")).First(&analytic).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Analytic not found"})
		} else {
			log.Printf("Failed to fetch analytic: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve analytic"})
		}
		return
	}

	if analytic.FileURL != "" {
		media.Cleanup(h.cfg.UploadsRoot(), "analytics", analytic.FileURL)
	}

	if err := db.DB.Delete(&analytic).Error; err != nil {
		log.Printf("Failed to delete analytic: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete analytic"})
		return
	}

	ctx.Status(http.StatusNoContent)
}
