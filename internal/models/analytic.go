package models

import (
	"time"

	"gorm.io/datatypes"
)

type Analytic struct {
	BaseModel

	Slug        string `gorm:"uniqueIndex;size:200;not null"`
	Title       string `gorm:"size:300;not null"`
	Excerpt     string
	FileURL     string `gorm:"not null"`
	FileType    string `gorm:"not null"`
	Published   bool   `gorm:"not null;default:false"`
	PublishedAt *time.Time
	Tags        datatypes.JSON
}

func (Analytic) TableName() string {
	return "analytics"
}
