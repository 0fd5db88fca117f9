package models

import (
	"github.com/google/uuid"
)

// Participant represents a joined identity's per-room play state
type Participant struct {
	ID          uuid.UUID `json:"id"`
	RoomID      uuid.UUID `json:"room_id"`
	IdentityID  uuid.UUID `json:"identity_id"`
	DisplayName string    `json:"display_name"`
	Score       int       `json:"score"`
	TurnOrder   int       `json:"turn_order"` // 1-based, assigned in join order
	Ready       bool      `json:"ready"`
	Connected   bool      `json:"connected"`
	Scorecard   Scorecard `json:"scorecard"`
}
