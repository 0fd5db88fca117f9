package gateway

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/mdevers/yachtroom/internal/models"
	"github.com/mdevers/yachtroom/internal/session"
)

// Coordinator defines what the gateway needs from the session layer.
type Coordinator interface {
	CreateRoom(ctx context.Context, hostIdentityID uuid.UUID) (*session.Snapshot, error)
	JoinRoom(ctx context.Context, code string, identityID uuid.UUID) (*session.Snapshot, error)
	LookupRoom(ctx context.Context, code string) (*session.Snapshot, error)
	Snapshot(ctx context.Context, roomID uuid.UUID) (*session.Snapshot, error)
	ValidateParticipant(ctx context.Context, roomID, participantID uuid.UUID) error
	StartRoom(ctx context.Context, roomID, requesterParticipantID uuid.UUID) (*session.Snapshot, error)
	RollDice(ctx context.Context, roomID, participantID uuid.UUID, holdMask []bool) (*session.Snapshot, error)
	SelectDice(ctx context.Context, roomID, participantID uuid.UUID, indices []int) (*session.Snapshot, error)
	ScoreCategory(ctx context.Context, roomID, participantID uuid.UUID, category models.Category) (*session.Snapshot, error)
	PassTurn(ctx context.Context, roomID, participantID uuid.UUID) (*session.Snapshot, error)
	ToggleReady(ctx context.Context, roomID, participantID uuid.UUID) (*session.Snapshot, error)
	RestartRoom(ctx context.Context, roomID, requesterParticipantID uuid.UUID) (*session.Snapshot, error)
	HandleDisconnect(roomID, participantID uuid.UUID)
}

// Service owns the websocket surface: upgrades, the read/write pumps,
// inbound action dispatch, and disconnect propagation.
type Service struct {
	coordinator Coordinator
	registry    *Registry
	dispatcher  *Dispatcher
	upgrader    websocket.Upgrader
}

func NewService(coordinator Coordinator, registry *Registry, dispatcher *Dispatcher) *Service {
	return &Service{
		coordinator: coordinator,
		registry:    registry,
		dispatcher:  dispatcher,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  registry.config.ReadBufferSize,
			WriteBufferSize: registry.config.WriteBufferSize,
			CheckOrigin:     registry.config.CheckOrigin,
		},
	}
}

// HandleWS upgrades the HTTP request and runs the connection until it
// closes. Registration happens later via an explicit register-connection
// action, never on transport connect.
func (s *Service) HandleWS(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("websocket upgrade failed")
		return
	}

	conn := &Connection{
		ID:          uuid.New(),
		ws:          ws,
		send:        make(chan []byte, 64),
		done:        make(chan struct{}),
		registry:    s.registry,
		connectedAt: time.Now(),
	}

	log.Info().Str("connection_id", conn.ID.String()).Msg("websocket connected")

	go conn.writePump()
	s.readPump(conn)
}

// readPump processes inbound frames in transport-delivery order until the
// connection drops.
func (s *Service) readPump(conn *Connection) {
	defer func() {
		s.handleClose(conn)
		conn.ws.Close()
	}()

	cfg := s.registry.config
	conn.ws.SetReadLimit(cfg.MaxMessageSize)
	conn.ws.SetReadDeadline(time.Now().Add(cfg.ReadTimeout))
	conn.ws.SetPongHandler(func(string) error {
		conn.ws.SetReadDeadline(time.Now().Add(cfg.ReadTimeout))
		return nil
	})

	for {
		_, message, err := conn.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Warn().Err(err).Str("connection_id", conn.ID.String()).Msg("websocket closed unexpectedly")
			}
			return
		}
		conn.ws.SetReadDeadline(time.Now().Add(cfg.ReadTimeout))
		s.handleFrame(conn, message)
	}
}

// handleFrame decodes one action and applies it. Rejections become an error
// notification to this connection only; authoritative state is untouched.
func (s *Service) handleFrame(conn *Connection, frame []byte) {
	act, err := decodeAction(frame)
	if err != nil {
		log.Debug().Err(err).Str("connection_id", conn.ID.String()).Msg("malformed action")
		s.sendError(conn, session.KindMalformedAction, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if act.Type == ActionRegister {
		s.handleRegister(ctx, conn, act.Register)
		return
	}

	if conn.RoomID == uuid.Nil {
		s.sendError(conn, session.KindNotAuthenticated, "register the connection before sending actions")
		return
	}

	roomID, participantID := conn.RoomID, conn.ParticipantID
	var actErr error
	switch act.Type {
	case ActionStartRoom:
		_, actErr = s.coordinator.StartRoom(ctx, roomID, participantID)
	case ActionRollDice:
		_, actErr = s.coordinator.RollDice(ctx, roomID, participantID, act.Roll.HoldMask)
	case ActionSelectDice:
		_, actErr = s.coordinator.SelectDice(ctx, roomID, participantID, act.Select.Indices)
	case ActionScoreCategory:
		_, actErr = s.coordinator.ScoreCategory(ctx, roomID, participantID, act.Score.Category)
	case ActionPassTurn:
		_, actErr = s.coordinator.PassTurn(ctx, roomID, participantID)
	case ActionToggleReady:
		_, actErr = s.coordinator.ToggleReady(ctx, roomID, participantID)
	case ActionRestartRoom:
		_, actErr = s.coordinator.RestartRoom(ctx, roomID, participantID)
	case ActionChat:
		s.dispatcher.BroadcastChat(roomID, participantID, act.Chat.Message)
	}

	if actErr != nil {
		log.Debug().
			Err(actErr).
			Str("connection_id", conn.ID.String()).
			Str("action", string(act.Type)).
			Msg("action rejected")
		s.sendError(conn, session.KindOf(actErr), actErr.Error())
	}
}

// handleRegister vets the claimed room membership, binds the connection,
// and pushes the current snapshot to this connection immediately.
func (s *Service) handleRegister(ctx context.Context, conn *Connection, reg RegisterPayload) {
	if err := s.coordinator.ValidateParticipant(ctx, reg.RoomID, reg.ParticipantID); err != nil {
		s.sendError(conn, session.KindOf(err), err.Error())
		return
	}
	if !s.registry.register(conn, reg.RoomID, reg.ParticipantID) {
		s.sendError(conn, session.KindMalformedAction, "connection already registered to another participant")
		return
	}

	snap, err := s.coordinator.Snapshot(ctx, reg.RoomID)
	if err != nil {
		s.sendError(conn, session.KindOf(err), err.Error())
		return
	}
	conn.sendJSON(stateMessage{Type: msgTypeState, Snapshot: snap})

	log.Info().
		Str("connection_id", conn.ID.String()).
		Str("room_id", reg.RoomID.String()).
		Str("participant_id", reg.ParticipantID.String()).
		Msg("connection registered to room")
}

// handleClose fires when the transport drops. Losing a participant's last
// connection is the disconnect event the session layer reacts to.
func (s *Service) handleClose(conn *Connection) {
	roomID, participantID := conn.RoomID, conn.ParticipantID
	lastConnection := s.registry.unregister(conn)
	conn.close()

	log.Info().Str("connection_id", conn.ID.String()).Msg("websocket disconnected")

	if lastConnection {
		s.coordinator.HandleDisconnect(roomID, participantID)
	}
}

func (s *Service) sendError(conn *Connection, kind session.ErrorKind, detail string) {
	conn.sendJSON(errorMessage{Type: msgTypeError, Kind: kind, Detail: detail})
}
