package middleware

import (
	"net/http"
	"strings"

	"github.com/apujo-dev/apujo/db"
	"github.com/apujo-dev/apujo/internal/auth"
	"github.com/apujo-dev/apujo/internal/models"
	"github.com/apujo-dev/apujo/internal/types"
	"github.com/gin-gonic/gin"
)

// AuthRequired enforces the bearer-token contract on mutating endpoints.
func AuthRequired() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		authHeader := ctx.GetHeader("Authorization")

		if authHeader == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)

		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid auth header"})
			return
		}

		subject, err := auth.VerifyToken(parts[1])

		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		var user models.User

		if err := db.DB.Where("username = ?", subject).First(&user).Error; err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
			return
		}

		ctx.Set(types.ContextUserKey, user.Username)
		ctx.Next()
	}
}
