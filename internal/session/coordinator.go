// Package session owns the authoritative in-memory game state for every
// active room and arbitrates all player actions against it. Each room is a
// single-consumer command loop; the coordinator is the only component that
// mutates room state, always through one of its named operations.
package session

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/mdevers/yachtroom/internal/models"
)

// IdentityResolver defines what the coordinator needs from the identity app
type IdentityResolver interface {
	GetIdentity(ctx context.Context, id uuid.UUID) (*models.Identity, error)
}

// Repository defines the durable writes the coordinator issues. In-memory
// state stays authoritative; see persist for the failure policy.
type Repository interface {
	CreateRoom(ctx context.Context, room models.Room) error
	UpdateRoom(ctx context.Context, room models.Room) error
	CreateParticipant(ctx context.Context, p models.Participant) error
	UpdateParticipant(ctx context.Context, p models.Participant) error
	SetScorecardValue(ctx context.Context, participantID uuid.UUID, category models.Category, points int) error
	ClearScorecards(ctx context.Context, roomID uuid.UUID) error
	CreateRoundRecord(ctx context.Context, rec models.RoundRecord) error
}

// Broadcaster pushes authoritative state to every connection registered for
// a room's participants.
type Broadcaster interface {
	BroadcastSnapshot(roomID uuid.UUID, snap *Snapshot)
	BroadcastTimerTick(roomID uuid.UUID, secondsLeft int, activeParticipantID uuid.UUID)
}

// EventPublisher receives room lifecycle events for external consumers.
// A nil publisher disables publishing.
type EventPublisher interface {
	PublishRoomEvent(ctx context.Context, event RoomEvent) error
}

// RoomEvent is the lifecycle notification emitted alongside broadcasts.
type RoomEvent struct {
	Type   RoomEventType `json:"type"`
	RoomID uuid.UUID     `json:"room_id"`
	Code   string        `json:"code"`
	At     time.Time     `json:"at"`
}

type RoomEventType string

const (
	RoomEventCreated   RoomEventType = "RoomCreated"
	RoomEventStarted   RoomEventType = "RoomStarted"
	RoomEventCompleted RoomEventType = "RoomCompleted"
	RoomEventRestarted RoomEventType = "RoomRestarted"
)

// Config tunes per-room behavior.
type Config struct {
	TurnSeconds     int           `yaml:"turn_seconds"`
	MaxParticipants int           `yaml:"max_participants"`
	CodeLength      int           `yaml:"code_length"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
}

// DefaultConfig mirrors the limits of the original table game.
func DefaultConfig() Config {
	return Config{
		TurnSeconds:     60,
		MaxParticipants: 6,
		CodeLength:      DefaultCodeLength,
		IdleTimeout:     30 * time.Minute,
	}
}

// deps is the shared dependency set handed to every room session.
type deps struct {
	repo        Repository
	broadcaster Broadcaster
	publisher   EventPublisher
	clock       clockwork.Clock
	rollDie     func() int
	turnSeconds int
}

// Coordinator orchestrates session lifecycle for all rooms.
type Coordinator struct {
	cfg        Config
	store      *Store
	identities IdentityResolver
	deps       *deps
}

// NewCoordinator wires the coordinator. publisher may be nil.
func NewCoordinator(cfg Config, repo Repository, identities IdentityResolver, broadcaster Broadcaster, publisher EventPublisher, clock clockwork.Clock) *Coordinator {
	if cfg.TurnSeconds <= 0 {
		cfg.TurnSeconds = DefaultConfig().TurnSeconds
	}
	if cfg.MaxParticipants <= 0 {
		cfg.MaxParticipants = DefaultConfig().MaxParticipants
	}
	if cfg.CodeLength <= 0 {
		cfg.CodeLength = DefaultCodeLength
	}
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = DefaultConfig().IdleTimeout
	}
	return &Coordinator{
		cfg:        cfg,
		store:      NewStore(),
		identities: identities,
		deps: &deps{
			repo:        repo,
			broadcaster: broadcaster,
			publisher:   publisher,
			clock:       clock,
			rollDie:     RollDie,
			turnSeconds: cfg.TurnSeconds,
		},
	}
}

// CreateRoom allocates a room with a fresh unique join code and registers
// the host as the participant at turn-order 1.
func (c *Coordinator) CreateRoom(ctx context.Context, hostIdentityID uuid.UUID) (*Snapshot, error) {
	ident, err := c.identities.GetIdentity(ctx, hostIdentityID)
	if err != nil {
		return nil, newError(KindIdentityNotFound, "identity %s does not resolve", hostIdentityID)
	}

	now := c.deps.clock.Now()
	room := models.Room{
		ID:           uuid.New(),
		HostID:       ident.ID,
		Status:       models.RoomStatusWaiting,
		CurrentRound: 1,
		TotalRounds:  models.TotalRounds,
		CreatedAt:    now,
	}
	host := &models.Participant{
		ID:          uuid.New(),
		RoomID:      room.ID,
		IdentityID:  ident.ID,
		DisplayName: ident.DisplayName,
		TurnOrder:   1,
		Connected:   true,
		Scorecard:   models.NewScorecard(),
	}

	s := newRoomSession(room, c.deps)
	s.participants[host.ID] = host

	// The session is not running yet, so its room copy is still ours to
	// touch; add is the atomic check-and-insert on the code.
	for {
		s.room.Code = generateCode(c.cfg.CodeLength)
		if c.store.add(s) {
			break
		}
	}
	room = s.room
	go s.run()

	c.deps.persist("create room", func(ctx context.Context) error {
		if err := c.deps.repo.CreateRoom(ctx, room); err != nil {
			return err
		}
		return c.deps.repo.CreateParticipant(ctx, *host)
	})
	c.deps.publish(RoomEvent{Type: RoomEventCreated, RoomID: room.ID, Code: room.Code, At: now})

	log.Info().
		Str("room_code", room.Code).
		Str("host_identity", ident.Handle).
		Msg("room created")

	return s.apply(ctx, func() (*Snapshot, error) {
		return s.snapshot(), nil
	})
}

// JoinRoom adds a new participant at the next turn-order position, or marks
// an existing participant connected again (idempotent rejoin).
func (c *Coordinator) JoinRoom(ctx context.Context, code string, identityID uuid.UUID) (*Snapshot, error) {
	ident, err := c.identities.GetIdentity(ctx, identityID)
	if err != nil {
		return nil, newError(KindIdentityNotFound, "identity %s does not resolve", identityID)
	}

	s, ok := c.store.getByCode(strings.ToUpper(strings.TrimSpace(code)))
	if !ok {
		return nil, newError(KindRoomNotFound, "no room with code %s", code)
	}

	snap, err := s.apply(ctx, func() (*Snapshot, error) {
		return s.join(ident, c.cfg.MaxParticipants)
	})
	if err != nil {
		return nil, err
	}
	c.deps.broadcaster.BroadcastSnapshot(s.room.ID, snap)
	return snap, nil
}

// StartRoom moves the room to active and hands the first turn to the
// participant at position 1. Only the host may start.
func (c *Coordinator) StartRoom(ctx context.Context, roomID, requesterParticipantID uuid.UUID) (*Snapshot, error) {
	return c.mutate(ctx, roomID, func(s *roomSession) (*Snapshot, error) {
		return s.start(requesterParticipantID)
	})
}

// RollDice rerolls every die not covered by the hold mask, spending one
// reroll and resetting the turn clock.
func (c *Coordinator) RollDice(ctx context.Context, roomID, participantID uuid.UUID, holdMask []bool) (*Snapshot, error) {
	return c.mutate(ctx, roomID, func(s *roomSession) (*Snapshot, error) {
		return s.roll(participantID, holdMask)
	})
}

// SelectDice sets the hold mask to exactly the given zero-based die indices.
func (c *Coordinator) SelectDice(ctx context.Context, roomID, participantID uuid.UUID, indices []int) (*Snapshot, error) {
	return c.mutate(ctx, roomID, func(s *roomSession) (*Snapshot, error) {
		return s.selectDice(participantID, indices)
	})
}

// ScoreCategory locks the current dice's point value into an open scorecard
// slot and advances the game.
func (c *Coordinator) ScoreCategory(ctx context.Context, roomID, participantID uuid.UUID, category models.Category) (*Snapshot, error) {
	return c.mutate(ctx, roomID, func(s *roomSession) (*Snapshot, error) {
		return s.score(participantID, category)
	})
}

// PassTurn hands the turn to the next participant without scoring.
func (c *Coordinator) PassTurn(ctx context.Context, roomID, participantID uuid.UUID) (*Snapshot, error) {
	return c.mutate(ctx, roomID, func(s *roomSession) (*Snapshot, error) {
		return s.pass(participantID)
	})
}

// ToggleReady flips the participant's ready flag. Only meaningful before
// the room starts; allowed any time.
func (c *Coordinator) ToggleReady(ctx context.Context, roomID, participantID uuid.UUID) (*Snapshot, error) {
	return c.mutate(ctx, roomID, func(s *roomSession) (*Snapshot, error) {
		return s.toggleReady(participantID)
	})
}

// RestartRoom zeroes every score and scorecard and returns the room to
// waiting, preserving membership and turn order. Only the host may restart.
func (c *Coordinator) RestartRoom(ctx context.Context, roomID, requesterParticipantID uuid.UUID) (*Snapshot, error) {
	return c.mutate(ctx, roomID, func(s *roomSession) (*Snapshot, error) {
		return s.restart(requesterParticipantID)
	})
}

// HandleDisconnect marks the participant disconnected once their last
// connection closes, force-passing their turn so the game is not stalled.
func (c *Coordinator) HandleDisconnect(roomID, participantID uuid.UUID) {
	s, ok := c.store.get(roomID)
	if !ok {
		return
	}
	snap, err := s.apply(context.Background(), func() (*Snapshot, error) {
		return s.disconnect(participantID)
	})
	if err != nil {
		log.Warn().Err(err).
			Str("participant_id", participantID.String()).
			Msg("disconnect handling failed")
		return
	}
	c.deps.broadcaster.BroadcastSnapshot(roomID, snap)
}

// Snapshot returns the current authoritative view of a room.
func (c *Coordinator) Snapshot(ctx context.Context, roomID uuid.UUID) (*Snapshot, error) {
	s, ok := c.store.get(roomID)
	if !ok {
		return nil, newError(KindRoomNotFound, "no room %s", roomID)
	}
	return s.apply(ctx, func() (*Snapshot, error) {
		return s.snapshot(), nil
	})
}

// LookupRoom resolves a join code to the room's current snapshot.
func (c *Coordinator) LookupRoom(ctx context.Context, code string) (*Snapshot, error) {
	s, ok := c.store.getByCode(strings.ToUpper(strings.TrimSpace(code)))
	if !ok {
		return nil, newError(KindRoomNotFound, "no room with code %s", code)
	}
	return s.apply(ctx, func() (*Snapshot, error) {
		return s.snapshot(), nil
	})
}

// ValidateParticipant reports whether the participant belongs to the room.
// The gateway uses it to vet connection registration.
func (c *Coordinator) ValidateParticipant(ctx context.Context, roomID, participantID uuid.UUID) error {
	s, ok := c.store.get(roomID)
	if !ok {
		return newError(KindRoomNotFound, "no room %s", roomID)
	}
	_, err := s.apply(ctx, func() (*Snapshot, error) {
		p, ok := s.participants[participantID]
		if !ok {
			return nil, newError(KindNotAuthenticated, "participant %s is not in room %s", participantID, s.room.Code)
		}
		p.Connected = true
		s.touch()
		return s.snapshot(), nil
	})
	return err
}

// RunIdleSweeper evicts inactive rooms until ctx is cancelled.
func (c *Coordinator) RunIdleSweeper(ctx context.Context, interval time.Duration) {
	ticker := c.deps.clock.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			c.store.sweepIdle(c.deps.clock.Now(), c.cfg.IdleTimeout)
		}
	}
}

// Shutdown stops every room loop.
func (c *Coordinator) Shutdown() {
	for _, s := range c.store.all() {
		s.stop()
	}
}

// mutate runs the mutation inside the room's command loop and broadcasts
// the resulting snapshot on success.
func (c *Coordinator) mutate(ctx context.Context, roomID uuid.UUID, fn func(*roomSession) (*Snapshot, error)) (*Snapshot, error) {
	s, ok := c.store.get(roomID)
	if !ok {
		return nil, newError(KindRoomNotFound, "no room %s", roomID)
	}
	snap, err := s.apply(ctx, func() (*Snapshot, error) { return fn(s) })
	if err != nil {
		return nil, err
	}
	c.deps.broadcaster.BroadcastSnapshot(s.room.ID, snap)
	return snap, nil
}

// retryDelay is the pause before a failed durable write's single retry.
const retryDelay = 500 * time.Millisecond

// persist issues a durable write off the hot path. In-memory state remains
// authoritative: on failure the write is retried once, then logged. Gameplay
// continuity never waits on the repository.
func (d *deps) persist(op string, fn func(ctx context.Context) error) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		err := fn(ctx)
		if err == nil {
			return
		}
		log.Warn().Err(err).Str("op", op).Msg("durable write failed, retrying")

		d.clock.Sleep(retryDelay)
		if err := fn(ctx); err != nil {
			log.Error().Err(err).Str("op", op).Msg("durable write failed after retry")
		}
	}()
}

func (d *deps) publish(event RoomEvent) {
	if d.publisher == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := d.publisher.PublishRoomEvent(ctx, event); err != nil {
			log.Warn().Err(err).
				Str("event_type", string(event.Type)).
				Str("room_code", event.Code).
				Msg("failed to publish room event")
		}
	}()
}
