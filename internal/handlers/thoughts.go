package handlers

import (
	"errors"
	"html"
	"log"
	"net/http"
	"time"

	"github.com/apujo-dev/apujo/db"
	"github.com/apujo-dev/apujo/internal/media"
	"github.com/apujo-dev/apujo/internal/models"
	"github.com/apujo-dev/apujo/internal/validate"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CreateThoughtRequest struct {
	Slug        string   `json:"slug"`
	Title       string   `json:"title" binding:"required"`
	Excerpt     string   `json:"excerpt"`
	FeaturedImg string   `json:"featured_img"`
	Content     string   `json:"content" binding:"required"`
	Tags        []string `json:"tags"`
	Published   bool     `json:"published"`
}

// UpdateThoughtRequest is a single partial-update shape: supplied fields
// overwrite, absent fields stay untouched.
type UpdateThoughtRequest struct {
	Slug        *string  `json:"slug"`
	Title       *string  `json:"title"`
	Excerpt     *string  `json:"excerpt"`
	FeaturedImg *string  `json:"featured_img"`
	Content     *string  `json:"content"`
	Tags        []string `json:"tags"`
	Published   *bool    `json:"published"`
}

type ThoughtResponse struct {
	ID          uint       `json:"id"`
	Slug        string     `json:"slug"`
	Title       string     `json:"title"`
	Excerpt     string     `json:"excerpt"`
	FeaturedImg string     `json:"featured_img"`
	Content     string     `json:"content"`
	Published   bool       `json:"published"`
	PublishedAt *time.Time `json:"published_at"`
	Tags        []string   `json:"tags"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func thoughtResponse(thought *models.Thought) ThoughtResponse {
	return ThoughtResponse{
		ID:          thought.ID,
		Slug:        thought.Slug,
		Title:       thought.Title,
		Excerpt:     thought.Excerpt,
		FeaturedImg: thought.FeaturedImg,
		Content:     thought.Content,
		Published:   thought.Published,
		PublishedAt: thought.PublishedAt,
		Tags:        models.DecodeStringList(thought.Tags),
		CreatedAt:   thought.CreatedAt,
		UpdatedAt:   thought.UpdatedAt,
	}
}

// deriveSlug builds a slug from the title plus the current UTC date, which
// keeps same-day collisions for identical titles unlikely.
func deriveSlug(title string) string {
	titlePart := validate.Slugify(title)
	datePart := time.Now().UTC().Format("20060102")

	if titlePart == "" {
		return datePart
	}

	return titlePart + "-" + datePart
}

func (h *Handler) ListThoughts(ctx *gin.Context) {
	skip, limit := pagination(ctx)

	var thoughts []models.Thought

	if err := db.DB.Order("created_at DESC").Limit(limit).Offset(skip).Find(&thoughts).Error; err != nil {
		log.Printf("Failed to list thoughts: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve thoughts"})
		return
	}

	response := make([]ThoughtResponse, 0, len(thoughts))

	for i := range thoughts {
		response = append(response, thoughtResponse(&thoughts[i]))
	}

	ctx.JSON(http.StatusOK, response)
}

func (h *Handler) GetThought(ctx *gin.Context) {
	var thought models.Thought

	err := db.DB.Where("slug = ?", ctx.Param("slug")).First(&thought).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Thought not found"})
		} else {
			log.Printf("Failed to fetch thought: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve thought"})
		}
		return
	}

	ctx.JSON(http.StatusOK, thoughtResponse(&thought))
}

func (h *Handler) CreateThought(ctx *gin.Context) {
	var body CreateThoughtRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if body.Slug == "" {
		body.Slug = deriveSlug(body.Title)
	}

	if err := validate.Slug(body.Slug); err != nil {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	if err := validate.Title(body.Title); err != nil {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	if err := validate.Content(body.Content); err != nil {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	var publishedAt *time.Time

	if body.Published {
		now := time.Now().UTC()
		publishedAt = &now
	}

	thought := models.Thought{
		Slug:        body.Slug,
		Title:       body.Title,
		Excerpt:     body.Excerpt,
		FeaturedImg: body.FeaturedImg,
		// Stored HTML-escaped so later rendering cannot inject markup.
		Content:     html.EscapeString(body.Content),
		Published:   body.Published,
		PublishedAt: publishedAt,
		Tags:        models.EncodeStringList(body.Tags),
	}

	if err := db.DB.Create(&thought).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			ctx.JSON(http.StatusConflict, gin.H{"error": "Resource conflict: possibly duplicate slug"})
			return
		}
		log.Printf("Failed to create thought: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create thought"})
		return
	}

	ctx.JSON(http.StatusCreated, thoughtResponse(&thought))
}

func (h *Handler) UpdateThought(ctx *gin.Context) {
	var body UpdateThoughtRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	updates := make(map[string]interface{})

	if body.Slug != nil {
		if err := validate.Slug(*body.Slug); err != nil {
			ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		updates["slug"] = *body.Slug
	}

	if body.Title != nil {
		if err := validate.Title(*body.Title); err != nil {
			ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		updates["title"] = *body.Title
	}

	if body.Excerpt != nil {
		updates["excerpt"] = *body.Excerpt
	}

	if body.Content != nil {
		if err := validate.Content(*body.Content); err != nil {
			ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		updates["content"] = html.EscapeString(*body.Content)
	}

	if body.FeaturedImg != nil {
		updates["featured_img"] = *body.FeaturedImg
	}

	if body.Tags != nil {
		updates["tags"] = models.EncodeStringList(body.Tags)
	}

	if body.Published != nil {
		updates["published"] = *body.Published

		if *body.Published {
			updates["published_at"] = time.Now().UTC()
		} else {
			updates["published_at"] = nil
		}
	}

	if len(updates) == 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "No fields to update"})
		return
	}

	var thought models.Thought

	err := db.DB.Where("slug = ?", ctx.Param("slug")).First(&thought).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Thought not found"})
		} else {
			log.Printf("Failed to fetch thought: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve thought"})
		}
		return
	}

	oldFeatured := thought.FeaturedImg

	if err := db.DB.Model(&thought).Updates(updates).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			ctx.JSON(http.StatusConflict, gin.H{"error": "Resource conflict: possibly duplicate slug"})
			return
		}
		log.Printf("Failed to update thought: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update thought"})
		return
	}

	// Remove the replaced file only after the row update succeeded, so a
	// failed update never leaves the row pointing at a deleted file.
	if newFeatured, ok := updates["featured_img"]; ok {
		if oldFeatured != "" && oldFeatured != newFeatured.(string) {
			media.Cleanup(h.cfg.UploadsRoot(), "thoughts", oldFeatured)
		}
	}

	if err := db.DB.First(&thought, thought.ID).Error; err != nil {
		log.Printf("Failed to reload thought: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve thought"})
		return
	}

	ctx.JSON(http.StatusOK, thoughtResponse(&thought))
}

func (h *Handler) DeleteThought(ctx *gin.Context) {
	var thought models.Thought

	err := db.DB.Where("slug = ?", ctx.Param("slug")).First(&thought).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Thought not found"})
		} else {
			log.Printf("Failed to fetch thought: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve thought"})
		}
		return
	}

	if thought.FeaturedImg != "" {
		media.Cleanup(h.cfg.UploadsRoot(), "thoughts", thought.FeaturedImg)
	}

	if err := db.DB.Delete(&thought).Error; err != nil {
		log.Printf("Failed to delete thought: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete thought"})
		return
	}

	ctx.Status(http.StatusNoContent)
}
