package models

import (
	"time"

	"gorm.io/datatypes"
)

type Thought struct {
	BaseModel

	Slug        string `gorm:"uniqueIndex;size:200;not null"`
	Title       string `gorm:"size:300;not null"`
	Excerpt     string
	FeaturedImg string
	Content     string `gorm:"type:text;not null"`
	Published   bool   `gorm:"not null;default:false"`
	PublishedAt *time.Time
	Tags        datatypes.JSON
}
