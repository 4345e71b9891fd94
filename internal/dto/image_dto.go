// FILE: internal/dto/image_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"
)

type GenerateImageRequest struct {
	Prompt    string     `json:"prompt" validate:"required,min=1,max=4000"`
	SessionId *uuid.UUID `json:"session_id"`
	Count     int        `json:"count" validate:"omitempty,min=1,max=4"`
}

type GeneratedImageResponse struct {
	Id        uuid.UUID `json:"id"`
	Prompt    string    `json:"prompt"`
	Model     string    `json:"model"`
	MimeType  string    `json:"mime_type"`
	ImageURL  string    `json:"image_url"`
	CreatedAt time.Time `json:"created_at"`
}

type GenerateImageResponse struct {
	Images         []*GeneratedImageResponse `json:"images"`
	CreditsCharged int                      `json:"credits_charged"`
	Balance        int                      `json:"balance"`
}
