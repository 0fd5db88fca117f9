package gateway

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// Registry maps a participant's stable identity to the set of live
// connections currently representing them. Multiple simultaneous
// connections per participant (duplicate tabs) are supported; membership is
// explicit, established by a register-connection message rather than
// inferred from the transport connect.
type Registry struct {
	mu sync.RWMutex
	// roomID -> participantID -> connection set
	rooms map[uuid.UUID]map[uuid.UUID]map[*Connection]bool

	config ConnConfig
}

// ConnConfig holds websocket tuning knobs.
type ConnConfig struct {
	WriteTimeout    time.Duration
	ReadTimeout     time.Duration
	PingInterval    time.Duration
	MaxMessageSize  int64
	ReadBufferSize  int
	WriteBufferSize int
	CheckOrigin     func(r *http.Request) bool
}

// DefaultConnConfig returns the default websocket configuration.
func DefaultConnConfig() ConnConfig {
	return ConnConfig{
		WriteTimeout:    10 * time.Second,
		ReadTimeout:     60 * time.Second,
		PingInterval:    30 * time.Second,
		MaxMessageSize:  4096,
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			// Game clients connect from arbitrary origins.
			return true
		},
	}
}

func NewRegistry(config ConnConfig) *Registry {
	return &Registry{
		rooms:  make(map[uuid.UUID]map[uuid.UUID]map[*Connection]bool),
		config: config,
	}
}

// Connection is one live websocket to a client. RoomID and ParticipantID
// are zero until the client registers.
type Connection struct {
	ID            uuid.UUID
	RoomID        uuid.UUID
	ParticipantID uuid.UUID

	ws        *websocket.Conn
	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
	registry  *Registry

	connectedAt time.Time
}

// register binds the connection to a room participant. Returns false when
// the connection was already registered to a different participant.
func (r *Registry) register(conn *Connection, roomID, participantID uuid.UUID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if conn.RoomID != uuid.Nil && (conn.RoomID != roomID || conn.ParticipantID != participantID) {
		return false
	}
	conn.RoomID = roomID
	conn.ParticipantID = participantID

	participants, ok := r.rooms[roomID]
	if !ok {
		participants = make(map[uuid.UUID]map[*Connection]bool)
		r.rooms[roomID] = participants
	}
	conns, ok := participants[participantID]
	if !ok {
		conns = make(map[*Connection]bool)
		participants[participantID] = conns
	}
	conns[conn] = true

	log.Debug().
		Str("connection_id", conn.ID.String()).
		Str("room_id", roomID.String()).
		Str("participant_id", participantID.String()).
		Int("participant_connections", len(conns)).
		Msg("connection registered")
	return true
}

// unregister removes the connection; it reports whether the participant's
// connection set just became empty (a disconnect event).
func (r *Registry) unregister(conn *Connection) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if conn.RoomID == uuid.Nil {
		return false
	}
	participants, ok := r.rooms[conn.RoomID]
	if !ok {
		return false
	}
	conns, ok := participants[conn.ParticipantID]
	if !ok || !conns[conn] {
		return false
	}
	delete(conns, conn)
	if len(conns) > 0 {
		return false
	}
	delete(participants, conn.ParticipantID)
	if len(participants) == 0 {
		delete(r.rooms, conn.RoomID)
	}

	log.Debug().
		Str("connection_id", conn.ID.String()).
		Str("room_id", conn.RoomID.String()).
		Str("participant_id", conn.ParticipantID.String()).
		Msg("last connection for participant closed")
	return true
}

// roomConnections snapshots every registered connection for a room.
func (r *Registry) roomConnections(roomID uuid.UUID) []*Connection {
	r.mu.RLock()
	defer r.mu.RUnlock()

	participants, ok := r.rooms[roomID]
	if !ok {
		return nil
	}
	var out []*Connection
	for _, conns := range participants {
		for conn := range conns {
			out = append(out, conn)
		}
	}
	return out
}

// ConnectionCount reports live registered connections for a room.
func (r *Registry) ConnectionCount(roomID uuid.UUID) int {
	return len(r.roomConnections(roomID))
}
