package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/apujo-dev/apujo/db"
	"github.com/apujo-dev/apujo/internal/auth"
	"github.com/apujo-dev/apujo/internal/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

func issueTokenPair(user *models.User) (*TokenResponse, error) {
	accessToken, err := auth.GenerateAccessToken(user.Username)

	if err != nil {
		return nil, err
	}

	refreshToken, err := auth.GenerateRefreshToken(user.Username)

	if err != nil {
		return nil, err
	}

	// Rotation-on-issue: storing the new refresh token invalidates the
	// previous session.
	if err := db.DB.Model(user).Update("refresh_token", refreshToken).Error; err != nil {
		return nil, err
	}

	return &TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
	}, nil
}

func (h *Handler) Login(ctx *gin.Context) {
	var body LoginRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	var user models.User

	err := db.DB.Where("username = ?", body.Username).First(&user).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
			return
		}
		log.Printf("Database error when fetching user: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if !auth.CheckPassword(body.Password, user.PasswordHash) {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
		return
	}

	tokens, err := issueTokenPair(&user)

	if err != nil {
		log.Printf("Failed to issue token pair: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, tokens)
}

func (h *Handler) Refresh(ctx *gin.Context) {
	var body RefreshRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	subject, err := auth.VerifyToken(body.RefreshToken)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid refresh token"})
		return
	}

	var user models.User

	err = db.DB.Where("username = ?", subject).First(&user).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid refresh token"})
			return
		}
		log.Printf("Database error when fetching user: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	// A superseded token no longer matches the stored one; replaying it
	// after a legitimate refresh must fail.
	if user.RefreshToken == nil || *user.RefreshToken != body.RefreshToken {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or rotated refresh token"})
		return
	}

	tokens, err := issueTokenPair(&user)

	if err != nil {
		log.Printf("Failed to issue token pair: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, tokens)
}

func (h *Handler) Logout(ctx *gin.Context) {
	subject := resolveLogoutSubject(ctx)

	if subject == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "No token provided"})
		return
	}

	err := db.DB.Model(&models.User{}).
		Where("username = ?", subject).
		Update("refresh_token", nil).Error

	if err != nil {
		log.Printf("Failed to clear refresh token: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"ok": true})
}

// resolveLogoutSubject identifies the session to end from the bearer header
// first, then from an explicit refresh token in the body.
func resolveLogoutSubject(ctx *gin.Context) string {
	authHeader := ctx.GetHeader("Authorization")

	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)

		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			if subject, err := auth.VerifyToken(parts[1]); err == nil {
				return subject
			}
		}
	}

	var body LogoutRequest

	if err := ctx.ShouldBindJSON(&body); err == nil && body.RefreshToken != "" {
		if subject, err := auth.VerifyToken(body.RefreshToken); err == nil {
			return subject
		}
	}

	return ""
}
