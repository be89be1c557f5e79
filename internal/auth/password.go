package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

// PBKDF2-SHA256 rather than bcrypt: bcrypt silently truncates passwords at
// 72 bytes, and stored hashes must verify regardless of input length.
const (
	pbkdf2Iterations = 29000
	pbkdf2SaltBytes  = 16
	pbkdf2KeyBytes   = 32
	hashScheme       = "pbkdf2_sha256"
)

func HashPassword(password string) (string, error) {
	salt := make([]byte, pbkdf2SaltBytes)

	if _, err := rand.Read(salt); err != nil {
		return "", err
	}

	key := pbkdf2.Key([]byte(password), salt, pbkdf2Iterations, pbkdf2KeyBytes, sha256.New)

	return fmt.Sprintf("%s$%d$%s$%s",
		hashScheme,
		pbkdf2Iterations,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// CheckPassword reports whether password matches the stored hash. A
// malformed stored value verifies false rather than erroring.
func CheckPassword(password, stored string) bool {
	parts := strings.Split(stored, "$")

	if len(parts) != 4 || parts[0] != hashScheme {
		return false
	}

	iterations, err := strconv.Atoi(parts[1])

	if err != nil || iterations <= 0 {
		return false
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[2])

	if err != nil {
		return false
	}

	want, err := base64.RawStdEncoding.DecodeString(parts[3])

	if err != nil || len(want) == 0 {
		return false
	}

	got := pbkdf2.Key([]byte(password), salt, iterations, len(want), sha256.New)

	return subtle.ConstantTimeCompare(got, want) == 1
}
