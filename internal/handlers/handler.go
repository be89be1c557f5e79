package handlers

import (
	"strconv"

	"github.com/apujo-dev/apujo/internal/config"
	"github.com/gin-gonic/gin"
)

type Handler struct {
	cfg *config.Config
}

func New(cfg *config.Config) *Handler {
	return &Handler{cfg: cfg}
}

func pagination(ctx *gin.Context) (skip, limit int) {
	skip = 0
	limit = 10

	if value, err := strconv.Atoi(ctx.DefaultQuery("skip", "0")); err == nil && value >= 0 {
		skip = value
	}

	if value, err := strconv.Atoi(ctx.DefaultQuery("limit", "10")); err == nil && value > 0 {
		limit = value
	}

	return skip, limit
}
