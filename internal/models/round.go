package models

import (
	"time"

	"github.com/google/uuid"
)

// RoundRecord is the durable per-participant record of a scored turn
type RoundRecord struct {
	ID            uuid.UUID `json:"id"`
	RoomID        uuid.UUID `json:"room_id"`
	ParticipantID uuid.UUID `json:"participant_id"`
	Round         int       `json:"round"`
	Category      Category  `json:"category"`
	Points        int       `json:"points"`
	CreatedAt     time.Time `json:"created_at"`
}
