package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Store holds every active room session, keyed by room id and join code.
// The maps are guarded for registration and lookup only; room state itself
// is mutated exclusively inside each session's command loop.
type Store struct {
	mu     sync.RWMutex
	byID   map[uuid.UUID]*roomSession
	byCode map[string]*roomSession
}

func NewStore() *Store {
	return &Store{
		byID:   make(map[uuid.UUID]*roomSession),
		byCode: make(map[string]*roomSession),
	}
}

// add registers the session under its id and join code. The code check and
// insert happen under one lock so two rooms can never share a code; a
// collision returns false and the caller picks a new code.
func (st *Store) add(s *roomSession) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	if _, ok := st.byCode[s.room.Code]; ok {
		return false
	}
	st.byID[s.room.ID] = s
	st.byCode[s.room.Code] = s
	return true
}

func (st *Store) remove(s *roomSession) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.byID, s.room.ID)
	delete(st.byCode, s.room.Code)
}

func (st *Store) get(id uuid.UUID) (*roomSession, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.byID[id]
	return s, ok
}

func (st *Store) getByCode(code string) (*roomSession, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.byCode[code]
	return s, ok
}

func (st *Store) all() []*roomSession {
	st.mu.RLock()
	defer st.mu.RUnlock()
	out := make([]*roomSession, 0, len(st.byID))
	for _, s := range st.byID {
		out = append(out, s)
	}
	return out
}

// sweepIdle stops and evicts sessions with no activity inside timeout.
func (st *Store) sweepIdle(now time.Time, timeout time.Duration) int {
	evicted := 0
	for _, s := range st.all() {
		if s.idleSince(now, timeout) {
			s.stop()
			st.remove(s)
			evicted++
			log.Info().
				Str("room_code", s.room.Code).
				Msg("evicted idle room session")
		}
	}
	return evicted
}
