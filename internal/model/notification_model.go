package model

import (
	"time"

	"github.com/google/uuid"
)

// Notification is the websocket push payload. It is not persisted; clients
// that miss it fall back to polling the relevant endpoint.
type Notification struct {
	Id        uuid.UUID              `json:"id"`
	UserId    uuid.UUID              `json:"user_id"`
	Type      string                 `json:"type"`
	Title     string                 `json:"title"`
	Body      string                 `json:"body"`
	Data      map[string]interface{} `json:"data,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}
