package entity

import (
	"time"

	"github.com/google/uuid"
)

type GeneratedImage struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	SessionId *uuid.UUID
	Prompt    string
	Model     string
	MimeType  string
	ImageURL  string
	CreatedAt time.Time
}
