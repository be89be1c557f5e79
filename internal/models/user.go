package models

type User struct {
	BaseModel

	Username     string `gorm:"uniqueIndex;size:150;not null"`
	PasswordHash string `gorm:"not null"`

	// Single active session per user: issuing a new refresh token
	// overwrites the previous one, which invalidates it.
	RefreshToken *string
}
