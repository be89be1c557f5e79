package auth

import (
	"errors"
	"time"

	"github.com/apujo-dev/apujo/internal/config"
	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid or expired token")

var (
	jwtSecret       []byte
	accessTokenTTL  time.Duration
	refreshTokenTTL time.Duration
)

func Init(cfg *config.Config) error {
	if cfg.JWTSecret == "" {
		return errors.New("SECRET_KEY is not set")
	}

	jwtSecret = []byte(cfg.JWTSecret)
	accessTokenTTL = cfg.AccessTokenTTL
	refreshTokenTTL = cfg.RefreshTokenTTL

	return nil
}

func generateToken(subject string, ttl time.Duration) (string, error) {
	now := time.Now().UTC()

	claims := jwt.MapClaims{
		"sub": subject,
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}

func GenerateAccessToken(subject string) (string, error) {
	return generateToken(subject, accessTokenTTL)
}

func GenerateRefreshToken(subject string) (string, error) {
	return generateToken(subject, refreshTokenTTL)
}

// VerifyToken returns the subject encoded in a signed token. Signature
// mismatch, expiry, and malformed structure all come back as ErrInvalidToken.
func VerifyToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return jwtSecret, nil
	})

	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}

	subject, err := token.Claims.GetSubject()

	if err != nil || subject == "" {
		return "", ErrInvalidToken
	}

	return subject, nil
}
