package models

import (
	"time"

	"github.com/google/uuid"
)

// Identity represents a registered player identity
type Identity struct {
	ID          uuid.UUID `json:"id"`
	Handle      string    `json:"handle"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
}
