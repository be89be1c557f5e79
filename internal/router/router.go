package router

import (
	"time"

	"github.com/apujo-dev/apujo/internal/config"
	"github.com/apujo-dev/apujo/internal/handlers"
	"github.com/apujo-dev/apujo/internal/middleware"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func New(cfg *config.Config) *gin.Engine {
	r := gin.Default()
	r.MaxMultipartMemory = cfg.MaxUploadSize

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	h := handlers.New(cfg)

	r.GET("/health", handlers.HealthCheck)
	r.Static("/static", cfg.StaticRoot)

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/login", h.Login)
			auth.POST("/refresh", h.Refresh)
			auth.POST("/logout", h.Logout)
		}

		thoughts := api.Group("/thoughts")
		{
			thoughts.GET("", h.ListThoughts)
			thoughts.GET("/:slug", h.GetThought)
			thoughts.POST("", middleware.AuthRequired(), h.CreateThought)
			thoughts.PUT("/:slug", middleware.AuthRequired(), h.UpdateThought)
			thoughts.DELETE("/:slug", middleware.AuthRequired(), h.DeleteThought)
		}

		works := api.Group("/works")
		{
			works.GET("", h.ListWorks)
			works.GET("/:slug", h.GetWork)
			works.POST("", middleware.AuthRequired(), h.CreateWork)
			works.PUT("/:slug", middleware.AuthRequired(), h.UpdateWork)
			works.DELETE("/:slug", middleware.AuthRequired(), h.DeleteWork)
		}

		analytics := api.Group("/analytics")
		{
			analytics.GET("", h.ListAnalytics)
			analytics.GET("/:slug", h.GetAnalytic)
			analytics.POST("", middleware.AuthRequired(), h.CreateAnalytic)
			analytics.PUT("/:slug", middleware.AuthRequired(), h.UpdateAnalytic)
			analytics.DELETE("/:slug", middleware.AuthRequired(), h.DeleteAnalytic)
		}

		api.POST("/uploads", middleware.AuthRequired(), h.UploadImage)

		api.GET("/images/:category/:filename", h.ServeImage)
		api.GET("/images/:category/:filename/blob", h.ServeImageBlob)
	}

	return r
}
