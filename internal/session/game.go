package session

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/mdevers/yachtroom/internal/models"
	"github.com/mdevers/yachtroom/internal/scoring"
	"github.com/mdevers/yachtroom/internal/turn"
)

// All methods in this file run inside the session's command loop.

func (s *roomSession) join(ident *models.Identity, maxParticipants int) (*Snapshot, error) {
	s.touch()

	// A finished game accepts nobody, not even returning members.
	if s.room.Status == models.RoomStatusCompleted {
		return nil, newError(KindRoomNotJoinable, "room %s has completed", s.room.Code)
	}

	// Idempotent rejoin: an existing participant just comes back online.
	for _, p := range s.participants {
		if p.IdentityID == ident.ID {
			p.Connected = true
			p.DisplayName = ident.DisplayName
			cp := *p
			s.deps.persist("rejoin participant", func(ctx context.Context) error {
				return s.deps.repo.UpdateParticipant(ctx, cp)
			})
			log.Info().
				Str("room_code", s.room.Code).
				Str("identity", ident.Handle).
				Msg("participant rejoined")
			return s.snapshot(), nil
		}
	}

	// Genuinely new participants are only accepted before the game starts;
	// once active, late joins are reconnects only.
	if s.room.Status != models.RoomStatusWaiting {
		return nil, newError(KindRoomNotJoinable, "room %s is %s, reconnects only", s.room.Code, s.room.Status)
	}
	if len(s.participants) >= maxParticipants {
		return nil, newError(KindRoomFull, "room %s already has %d participants", s.room.Code, maxParticipants)
	}

	p := &models.Participant{
		ID:          uuid.New(),
		RoomID:      s.room.ID,
		IdentityID:  ident.ID,
		DisplayName: ident.DisplayName,
		TurnOrder:   s.nextTurnOrder(),
		Connected:   true,
		Scorecard:   models.NewScorecard(),
	}
	s.participants[p.ID] = p

	cp := *p
	s.deps.persist("create participant", func(ctx context.Context) error {
		return s.deps.repo.CreateParticipant(ctx, cp)
	})

	log.Info().
		Str("room_code", s.room.Code).
		Str("identity", ident.Handle).
		Int("turn_order", p.TurnOrder).
		Msg("participant joined")

	return s.snapshot(), nil
}

func (s *roomSession) nextTurnOrder() int {
	highest := 0
	for _, p := range s.participants {
		if p.TurnOrder > highest {
			highest = p.TurnOrder
		}
	}
	return highest + 1
}

func (s *roomSession) start(requesterParticipantID uuid.UUID) (*Snapshot, error) {
	s.touch()

	requester, ok := s.participants[requesterParticipantID]
	if !ok || requester.IdentityID != s.room.HostID {
		return nil, newError(KindNotHost, "only the host may start room %s", s.room.Code)
	}
	if s.room.Status == models.RoomStatusActive {
		// Duplicate start requests are harmless.
		return s.snapshot(), nil
	}
	if s.room.Status == models.RoomStatusCompleted {
		return nil, newError(KindRoomNotJoinable, "room %s has completed", s.room.Code)
	}
	if len(s.participants) == 0 {
		return nil, newError(KindNoParticipants, "room %s has no participants", s.room.Code)
	}

	// A lone host is auto-readied; waiting on themselves would be absurd.
	if len(s.participants) == 1 {
		requester.Ready = true
	}

	ordered := s.participantList()
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].TurnOrder < ordered[j].TurnOrder })

	first := turn.First(ordered)
	s.room.Status = models.RoomStatusActive
	s.room.CurrentTurnID = first.ID
	s.room.CurrentRound = 1
	s.turn = models.NewTurnState(s.deps.turnSeconds)

	room := s.room
	s.deps.persist("start room", func(ctx context.Context) error {
		return s.deps.repo.UpdateRoom(ctx, room)
	})
	s.deps.publish(RoomEvent{Type: RoomEventStarted, RoomID: room.ID, Code: room.Code, At: s.deps.clock.Now()})

	log.Info().
		Str("room_code", s.room.Code).
		Str("first_turn", first.DisplayName).
		Int("participants", len(s.participants)).
		Msg("room started")

	return s.snapshot(), nil
}

func (s *roomSession) roll(participantID uuid.UUID, holdMask []bool) (*Snapshot, error) {
	if err := s.requireActive(participantID); err != nil {
		return nil, err
	}
	if s.turn.RollsLeft <= 0 {
		return nil, newError(KindNoRollsLeft, "no rolls left this turn")
	}
	s.touch()

	// The caller's mask is authoritative when it covers every die;
	// otherwise the previously selected holds stand.
	holds := s.turn.Holds
	if len(holdMask) == models.DiceCount {
		copy(holds[:], holdMask)
	}

	for i := 0; i < models.DiceCount; i++ {
		if !holds[i] {
			s.turn.Dice[i] = s.deps.rollDie()
		}
	}
	s.turn.RollsLeft--
	s.turn.Holds = [models.DiceCount]bool{}
	s.turn.SecondsLeft = s.deps.turnSeconds

	log.Debug().
		Str("room_code", s.room.Code).
		Ints("dice", s.turn.Dice[:]).
		Int("rolls_left", s.turn.RollsLeft).
		Msg("dice rolled")

	return s.snapshot(), nil
}

func (s *roomSession) selectDice(participantID uuid.UUID, indices []int) (*Snapshot, error) {
	if err := s.requireActive(participantID); err != nil {
		return nil, err
	}
	s.touch()

	var holds [models.DiceCount]bool
	for _, idx := range indices {
		if idx >= 0 && idx < models.DiceCount {
			holds[idx] = true
		}
	}
	s.turn.Holds = holds

	return s.snapshot(), nil
}

func (s *roomSession) score(participantID uuid.UUID, category models.Category) (*Snapshot, error) {
	if err := s.requireActive(participantID); err != nil {
		return nil, err
	}

	known := false
	for _, c := range models.Categories {
		if c == category {
			known = true
			break
		}
	}
	if !known {
		return nil, newError(KindMalformedAction, "unknown category %q", category)
	}

	p := s.participants[participantID]
	if p.Scorecard.IsSet(category) {
		return nil, newError(KindCategoryAlreadyScored, "category %s already scored", category)
	}
	s.touch()

	points := scoring.Score(s.turn.Dice, category)
	p.Scorecard[category] = points
	p.Score += points

	cp := *p
	rec := models.RoundRecord{
		ID:            uuid.New(),
		RoomID:        s.room.ID,
		ParticipantID: p.ID,
		Round:         s.room.CurrentRound,
		Category:      category,
		Points:        points,
		CreatedAt:     s.deps.clock.Now(),
	}
	s.deps.persist("score category", func(ctx context.Context) error {
		if err := s.deps.repo.SetScorecardValue(ctx, cp.ID, category, points); err != nil {
			return err
		}
		if err := s.deps.repo.UpdateParticipant(ctx, cp); err != nil {
			return err
		}
		return s.deps.repo.CreateRoundRecord(ctx, rec)
	})

	log.Info().
		Str("room_code", s.room.Code).
		Str("participant", p.DisplayName).
		Str("category", string(category)).
		Int("points", points).
		Int("total", p.Score).
		Msg("category scored")

	if s.allScorecardsComplete() {
		s.complete()
		return s.snapshot(), nil
	}

	s.advanceTurn(false)
	return s.snapshot(), nil
}

func (s *roomSession) pass(participantID uuid.UUID) (*Snapshot, error) {
	if err := s.requireActive(participantID); err != nil {
		return nil, err
	}
	s.touch()
	s.advanceTurn(true)
	return s.snapshot(), nil
}

// forcePass is the server-initiated pass used by the turn timer and by
// disconnect handling; it bypasses the identity check.
func (s *roomSession) forcePass() {
	if s.room.Status != models.RoomStatusActive || s.activeParticipant() == nil {
		return
	}
	s.advanceTurn(true)
}

func (s *roomSession) toggleReady(participantID uuid.UUID) (*Snapshot, error) {
	p, ok := s.participants[participantID]
	if !ok {
		return nil, newError(KindMalformedAction, "unknown participant %s", participantID)
	}
	s.touch()
	p.Ready = !p.Ready

	cp := *p
	s.deps.persist("toggle ready", func(ctx context.Context) error {
		return s.deps.repo.UpdateParticipant(ctx, cp)
	})

	return s.snapshot(), nil
}

func (s *roomSession) restart(requesterParticipantID uuid.UUID) (*Snapshot, error) {
	requester, ok := s.participants[requesterParticipantID]
	if !ok || requester.IdentityID != s.room.HostID {
		return nil, newError(KindNotHost, "only the host may restart room %s", s.room.Code)
	}
	s.touch()

	s.room.Status = models.RoomStatusWaiting
	s.room.CurrentTurnID = uuid.Nil
	s.room.CurrentRound = 1
	s.turn = models.NewTurnState(s.deps.turnSeconds)

	updated := make([]models.Participant, 0, len(s.participants))
	for _, p := range s.participants {
		p.Score = 0
		p.Ready = false
		p.Scorecard = models.NewScorecard()
		updated = append(updated, *p)
	}

	room := s.room
	s.deps.persist("restart room", func(ctx context.Context) error {
		if err := s.deps.repo.UpdateRoom(ctx, room); err != nil {
			return err
		}
		if err := s.deps.repo.ClearScorecards(ctx, room.ID); err != nil {
			return err
		}
		for _, p := range updated {
			if err := s.deps.repo.UpdateParticipant(ctx, p); err != nil {
				return err
			}
		}
		return nil
	})
	s.deps.publish(RoomEvent{Type: RoomEventRestarted, RoomID: room.ID, Code: room.Code, At: s.deps.clock.Now()})

	log.Info().Str("room_code", s.room.Code).Msg("room restarted")

	return s.snapshot(), nil
}

func (s *roomSession) disconnect(participantID uuid.UUID) (*Snapshot, error) {
	p, ok := s.participants[participantID]
	if !ok {
		return nil, newError(KindMalformedAction, "unknown participant %s", participantID)
	}
	p.Connected = false

	cp := *p
	s.deps.persist("participant disconnected", func(ctx context.Context) error {
		return s.deps.repo.UpdateParticipant(ctx, cp)
	})

	log.Info().
		Str("room_code", s.room.Code).
		Str("participant", p.DisplayName).
		Msg("participant disconnected")

	if s.room.Status == models.RoomStatusActive && s.room.CurrentTurnID == p.ID {
		s.forcePass()
	}
	return s.snapshot(), nil
}

// requireActive validates the basic preconditions shared by every in-turn
// action: the room is running and the actor holds the turn.
func (s *roomSession) requireActive(participantID uuid.UUID) error {
	if s.room.Status != models.RoomStatusActive {
		return newError(KindNotYourTurn, "room %s is not active", s.room.Code)
	}
	if s.room.CurrentTurnID != participantID {
		return newError(KindNotYourTurn, "it is not your turn")
	}
	if _, ok := s.participants[participantID]; !ok {
		return newError(KindNotYourTurn, "participant %s is not in room %s", participantID, s.room.Code)
	}
	return nil
}

// advanceTurn hands the turn to the next participant in order, bumping the
// round counter on wraparound. Round exhaustion only completes the game on
// pass-based advances: scoring games always finish by filling scorecards,
// while a pass-stalled game must still terminate.
func (s *roomSession) advanceTurn(viaPass bool) {
	active := s.activeParticipant()
	if active == nil {
		return
	}

	next, rollover := turn.Next(s.participantList(), active.TurnOrder)
	if rollover {
		s.room.CurrentRound++
	}
	if viaPass && s.room.CurrentRound > s.room.TotalRounds {
		s.complete()
		return
	}

	s.room.CurrentTurnID = next.ID
	s.turn = models.NewTurnState(s.deps.turnSeconds)

	room := s.room
	s.deps.persist("advance turn", func(ctx context.Context) error {
		return s.deps.repo.UpdateRoom(ctx, room)
	})

	log.Debug().
		Str("room_code", s.room.Code).
		Str("current_turn", next.DisplayName).
		Int("round", s.room.CurrentRound).
		Msg("turn advanced")
}

func (s *roomSession) allScorecardsComplete() bool {
	for _, p := range s.participants {
		if !p.Scorecard.Complete() {
			return false
		}
	}
	return len(s.participants) > 0
}

// complete moves the room to completed and stops the countdown; completing
// an already-completed room is a no-op.
func (s *roomSession) complete() {
	if s.room.Status == models.RoomStatusCompleted {
		return
	}
	s.room.Status = models.RoomStatusCompleted
	s.room.CurrentTurnID = uuid.Nil

	room := s.room
	s.deps.persist("complete room", func(ctx context.Context) error {
		return s.deps.repo.UpdateRoom(ctx, room)
	})
	s.deps.publish(RoomEvent{Type: RoomEventCompleted, RoomID: room.ID, Code: room.Code, At: s.deps.clock.Now()})

	log.Info().Str("room_code", s.room.Code).Msg("room completed")
}
