package handlers

import (
	"errors"
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

type CreateWorkRequest struct {
	Slug        string   `json:"slug" binding:"required"`
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description" binding:"required"`
	Year        string   `json:"year"`
	URL         string   `json:"url"`
	Repo        string   `json:"repo"`
	Tech        []string `json:"tech"`
	Images      []string `json:"images"`
	Published   bool     `json:"published"`
}

type UpdateWorkRequest struct {
	Slug        *string  `json:"slug"`
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Year        *string  `json:"year"`
	URL         *string  `json:"url"`
	Repo        *string  `json:"repo"`
	Tech        []string `json:"tech"`
	Images      []string `json:"images"`
	Published   *bool    `json:"published"`
}

type WorkResponse struct {
	ID          uint      `json:"id"`
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Year        string    `json:"year"`
	URL         string    `json:"url"`
	Repo        string    `json:"repo"`
	Images      []string  `json:"images"`
	Tech        []string  `json:"tech"`
	Published   bool      `json:"published"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func workResponse(work *models.Work) WorkResponse {
	return WorkResponse{
		ID:          work.ID,
		Slug:        work.Slug,
		Title:       work.Title,
		Description: work.Description,
		Year:        work.Year,
		URL:         work.URL,
		Repo:        work.Repo,
		Images:      models.DecodeStringList(work.Images),
		Tech:        models.DecodeStringList(work.Tech),
		Published:   work.Published,
		CreatedAt:   work.CreatedAt,
		UpdatedAt:   work.UpdatedAt,
	}
}

func (h *Handler) ListWorks(ctx *gin.Context) {
	skip, limit := pagination(ctx)

	var works []models.Work

	if err := db.DB.Order("created_at DESC").Limit(limit).Offset(skip).Find(&works).Error; err != nil {
		log.Printf("Failed to list works: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve works"})
		return
	}

	response := make([]WorkResponse, 0, len(works))

	for i := range works {
		response = append(response, workResponse(&works[i]))
	}

	ctx.JSON(http.StatusOK, response)
}

func (h *Handler) GetWork(ctx *gin.Context) {
	var work models.Work

	err := db.DB.Where("slug = ?", ctx.Param("slug")).First(&work).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Work not found"})
		} else {
			log.Printf("Failed to fetch work: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve work"})
		}
		return
	}

	ctx.JSON(http.StatusOK, workResponse(&work))
}

func (h *Handler) CreateWork(ctx *gin.Context) {
	var body CreateWorkRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if err := validate.Slug(body.Slug); err != nil {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	if err := validate.Title(body.Title); err != nil {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	work := models.Work{
		Slug:        body.Slug,
		Title:       body.Title,
		Description: body.Description,
		Year:        body.Year,
		URL:         body.URL,
		Repo:        body.Repo,
		Images:      models.EncodeStringList(body.Images),
		Tech:        models.EncodeStringList(body.Tech),
		Published:   body.Published,
	}

	if err := db.DB.Create(&work).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			ctx.JSON(http.StatusConflict, gin.H{"error": "Resource conflict: possibly duplicate slug"})
			return
		}
		log.Printf("Failed to create work: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create work"})
		return
	}

	ctx.JSON(http.StatusCreated, workResponse(&work))
}

func (h *Handler) UpdateWork(ctx *gin.Context) {
	var body UpdateWorkRequest

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

	if body.Description != nil {
		updates["description"] = *body.Description
	}

	if body.Year != nil {
		updates["year"] = *body.Year
	}

	if body.URL != nil {
		updates["url"] = *body.URL
	}

	if body.Repo != nil {
		updates["repo"] = *body.Repo
	}

	if body.Tech != nil {
		updates["tech"] = models.EncodeStringList(body.Tech)
	}

	if body.Images != nil {
		updates["images"] = models.EncodeStringList(body.Images)
	}

	if body.Published != nil {
		updates["published"] = *body.Published
	}

	if len(updates) == 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "No fields to update"})
		return
	}

	var work models.Work

	err := db.DB.Where("slug = ?", ctx.Param("slug")).First(&work).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Work not found"})
		} else {
			log.Printf("Failed to fetch work: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve work"})
		}
		return
	}

	oldImages := models.DecodeStringList(work.Images)

	if err := db.DB.Model(&work).Updates(updates).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			ctx.JSON(http.StatusConflict, gin.H{"error": "Resource conflict: possibly duplicate slug"})
			return
		}
		log.Printf("Failed to update work: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update work"})
		return
	}

	// Drop only the files no longer referenced by the new list, after the
	// row update succeeded.
	if body.Images != nil {
		if orphans := media.Orphans(oldImages, body.Images); len(orphans) > 0 {
			media.Cleanup(h.cfg.UploadsRoot(), "works", orphans...)
		}
	}

	if err := db.DB.First(&work, work.ID).Error; err != nil {
		log.Printf("Failed to reload work: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve work"})
		return
	}

	ctx.JSON(http.StatusOK, workResponse(&work))
}

func (h *Handler) DeleteWork(ctx *gin.Context) {
	var work models.Work

	err := db.DB.Where("slug = ?", ctx.Param("slug")).First(&work).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Work not found"})
		} else {
			log.Printf("Failed to fetch work: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve work"})
		}
		return
	}

	if images := models.DecodeStringList(work.Images); len(images) > 0 {
		media.Cleanup(h.cfg.UploadsRoot(), "works", images...)
	}

	if err := db.DB.Delete(&work).Error; err != nil {
		log.Printf("Failed to delete work: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete work"})
		return
	}

	ctx.Status(http.StatusNoContent)
}
