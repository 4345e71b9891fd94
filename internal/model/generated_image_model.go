package model

import (
	"time"

	"github.com/google/uuid"
)

type GeneratedImage struct {
	Id        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId    uuid.UUID  `gorm:"type:uuid;not null;index"`
	SessionId *uuid.UUID `gorm:"type:uuid;index"`
	Prompt    string     `gorm:"type:text;not null"`
	Model     string     `gorm:"type:varchar(100);not null"`
	MimeType  string     `gorm:"type:varchar(50)"`
	ImageURL  string     `gorm:"type:text;not null"`
	CreatedAt time.Time  `gorm:"autoCreateTime;index"`
}

func (GeneratedImage) TableName() string {
	return "generated_images"
}
