package entity

import (
	"time"

	"github.com/google/uuid"
)

type Feedback struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	Rating    int
	Message   string
	CreatedAt time.Time
}
