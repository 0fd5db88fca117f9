package gateway

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/mdevers/yachtroom/internal/session"
)

// Dispatcher pushes authoritative room state to every registered connection
// of every participant in the room. A failed or slow connection never
// blocks delivery to the others.
type Dispatcher struct {
	registry *Registry
}

func NewDispatcher(registry *Registry) *Dispatcher {
	return &Dispatcher{registry: registry}
}

var _ session.Broadcaster = (*Dispatcher)(nil)

// BroadcastSnapshot sends the full current snapshot (not a diff) to every
// connection registered for the room.
func (d *Dispatcher) BroadcastSnapshot(roomID uuid.UUID, snap *session.Snapshot) {
	d.fanOut(roomID, stateMessage{Type: msgTypeState, Snapshot: snap})
}

// BroadcastTimerTick sends the countdown value for the active turn.
func (d *Dispatcher) BroadcastTimerTick(roomID uuid.UUID, secondsLeft int, activeParticipantID uuid.UUID) {
	d.fanOut(roomID, timerMessage{
		Type:          msgTypeTimer,
		SecondsLeft:   secondsLeft,
		ParticipantID: activeParticipantID.String(),
	})
}

// BroadcastChat relays a chat line to the room without touching game state.
func (d *Dispatcher) BroadcastChat(roomID, participantID uuid.UUID, message string) {
	d.fanOut(roomID, chatMessage{
		Type:          msgTypeChat,
		ParticipantID: participantID.String(),
		Message:       message,
	})
}

func (d *Dispatcher) fanOut(roomID uuid.UUID, payload any) {
	conns := d.registry.roomConnections(roomID)
	if len(conns) == 0 {
		return
	}

	// Marshal once for the whole room.
	data, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Str("room_id", roomID.String()).Msg("failed to marshal broadcast payload")
		return
	}

	for _, conn := range conns {
		select {
		case conn.send <- data:
		default:
			// Send buffer full: the connection is slow or dead, drop it so
			// the rest of the room keeps receiving.
			log.Warn().
				Str("connection_id", conn.ID.String()).
				Str("participant_id", conn.ParticipantID.String()).
				Msg("send buffer full, closing connection")
			conn.close()
		}
	}
}
