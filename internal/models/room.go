package models

import (
	"time"

	"github.com/google/uuid"
)

// RoomStatus represents the lifecycle phase of a room
type RoomStatus string

const (
	RoomStatusWaiting   RoomStatus = "waiting"
	RoomStatusActive    RoomStatus = "active"
	RoomStatusCompleted RoomStatus = "completed"
)

// TotalRounds is fixed: one round per scoring category minus the extra
// free-choice turn, per classic Yacht rules.
const TotalRounds = 12

// Room represents one game instance identified by a shareable join code
type Room struct {
	ID            uuid.UUID  `json:"id"`
	Code          string     `json:"code"`
	HostID        uuid.UUID  `json:"host_id"`
	Status        RoomStatus `json:"status"`
	CurrentTurnID uuid.UUID  `json:"current_turn_id"` // active participant, zero when not active
	CurrentRound  int        `json:"current_round"`
	TotalRounds   int        `json:"total_rounds"`
	CreatedAt     time.Time  `json:"created_at"`
}
