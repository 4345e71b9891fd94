// FILE: internal/dto/chat_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateSessionRequest struct {
	Title string `json:"title" validate:"omitempty,max=120"`
}

type SessionResponse struct {
	Id        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type SendMessageRequest struct {
	Content string `json:"content" validate:"required,min=1,max=4000"`
}

type MessageResponse struct {
	Id            uuid.UUID `json:"id"`
	SessionId     uuid.UUID `json:"session_id"`
	Role          string    `json:"role"`
	Content       string    `json:"content"`
	RefinedPrompt *string   `json:"refined_prompt,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

type SendMessageResponse struct {
	UserMessage      MessageResponse `json:"user_message"`
	AssistantMessage MessageResponse `json:"assistant_message"`
}
