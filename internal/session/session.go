package session

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/mdevers/yachtroom/internal/models"
)

// roomSession owns the authoritative in-memory state of one room. All
// mutation flows through its command loop, one event at a time, which is
// what makes the lack of per-field locking safe: two actions on the same
// room can never interleave at the instruction level.
type roomSession struct {
	room         models.Room
	participants map[uuid.UUID]*models.Participant
	turn         models.TurnState

	// lastActivity is read by the idle sweeper outside the command loop.
	lastActivity atomic.Int64

	deps *deps

	cmdCh    chan command
	stopCh   chan struct{}
	stopOnce sync.Once
}

type command struct {
	fn    func() (*Snapshot, error)
	reply chan result
}

type result struct {
	snap *Snapshot
	err  error
}

func newRoomSession(room models.Room, d *deps) *roomSession {
	s := &roomSession{
		room:         room,
		participants: make(map[uuid.UUID]*models.Participant),
		turn:         models.NewTurnState(d.turnSeconds),
		deps:         d,
		cmdCh:        make(chan command, 16),
		stopCh:       make(chan struct{}),
	}
	s.touch()
	return s
}

// run is the session's single consumer loop. The countdown shares the loop
// with commands, so a timer expiry is just another serialized event.
func (s *roomSession) run() {
	ticker := s.deps.clock.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case cmd := <-s.cmdCh:
			snap, err := cmd.fn()
			cmd.reply <- result{snap: snap, err: err}
		case <-ticker.Chan():
			s.tick()
		}
	}
}

// stop shuts the loop down. Safe to call more than once; a stopped
// session's countdown is gone with its goroutine.
func (s *roomSession) stop() {
	s.stopOnce.Do(func() { close(s.stopCh) })
}

// apply runs fn inside the command loop and waits for its result.
func (s *roomSession) apply(ctx context.Context, fn func() (*Snapshot, error)) (*Snapshot, error) {
	cmd := command{fn: fn, reply: make(chan result, 1)}

	select {
	case s.cmdCh <- cmd:
	case <-s.stopCh:
		return nil, newError(KindRoomNotFound, "room %s is gone", s.room.Code)
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	select {
	case res := <-cmd.reply:
		return res.snap, res.err
	case <-s.stopCh:
		// The loop may have replied just before exiting; the reply channel
		// is buffered, so a completed command is still observable here.
		select {
		case res := <-cmd.reply:
			return res.snap, res.err
		default:
			return nil, newError(KindRoomNotFound, "room %s is gone", s.room.Code)
		}
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// tick advances the countdown while the room is active. Reaching zero
// force-passes the active participant's turn on the server's behalf.
func (s *roomSession) tick() {
	if s.room.Status != models.RoomStatusActive {
		return
	}

	s.turn.SecondsLeft--
	if s.turn.SecondsLeft > 0 {
		s.deps.broadcaster.BroadcastTimerTick(s.room.ID, s.turn.SecondsLeft, s.room.CurrentTurnID)
		return
	}

	log.Info().
		Str("room_code", s.room.Code).
		Str("participant_id", s.room.CurrentTurnID.String()).
		Msg("turn timer expired, passing turn")

	s.forcePass()
	s.deps.broadcaster.BroadcastSnapshot(s.room.ID, s.snapshot())
}

func (s *roomSession) touch() {
	s.lastActivity.Store(s.deps.clock.Now().UnixNano())
}

func (s *roomSession) idleSince(now time.Time, timeout time.Duration) bool {
	return now.Sub(time.Unix(0, s.lastActivity.Load())) > timeout
}

// orderedParticipants returns the live participant pointers; order is not
// guaranteed, the turn sequencer works from TurnOrder values.
func (s *roomSession) participantList() []*models.Participant {
	out := make([]*models.Participant, 0, len(s.participants))
	for _, p := range s.participants {
		out = append(out, p)
	}
	return out
}

func (s *roomSession) activeParticipant() *models.Participant {
	if s.room.CurrentTurnID == uuid.Nil {
		return nil
	}
	return s.participants[s.room.CurrentTurnID]
}
