package models

import (
	"gorm.io/datatypes"
)

type Work struct {
	BaseModel

	Slug        string `gorm:"uniqueIndex;size:200;not null"`
	Title       string `gorm:"size:300;not null"`
	Description string `gorm:"type:text;not null"`
	Year        string
	URL         string
	Repo        string
	Images      datatypes.JSON
	Tech        datatypes.JSON
	Published   bool `gorm:"not null;default:false"`
}
