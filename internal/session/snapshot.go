package session

import (
	"sort"

	"github.com/mdevers/yachtroom/internal/models"
	"github.com/mdevers/yachtroom/internal/scoring"
)

// Snapshot is the full authoritative view of a room pushed to every
// connection after each successful mutation. It is always a deep copy;
// receivers may not reach back into live session state.
type Snapshot struct {
	Room         models.Room          `json:"room"`
	Participants []models.Participant `json:"participants"`
	TurnState    models.TurnState     `json:"turn_state"`
	Standings    []Standing           `json:"standings,omitempty"`
}

// Standing reports a participant's final total once a room completes.
type Standing struct {
	ParticipantID string `json:"participant_id"`
	DisplayName   string `json:"display_name"`
	BaseScore     int    `json:"base_score"`
	UpperBonus    int    `json:"upper_bonus"`
	FinalScore    int    `json:"final_score"`
	Winner        bool   `json:"winner"`
}

// snapshot builds a deep copy of the session's current state. Callers must
// hold the session's command loop (it is only invoked from inside apply).
func (s *roomSession) snapshot() *Snapshot {
	snap := &Snapshot{
		Room:         s.room,
		TurnState:    s.turn,
		Participants: make([]models.Participant, 0, len(s.participants)),
	}

	for _, p := range s.participants {
		cp := *p
		cp.Scorecard = models.NewScorecard()
		for cat, pts := range p.Scorecard {
			cp.Scorecard[cat] = pts
		}
		snap.Participants = append(snap.Participants, cp)
	}
	sort.Slice(snap.Participants, func(i, j int) bool {
		return snap.Participants[i].TurnOrder < snap.Participants[j].TurnOrder
	})

	if s.room.Status == models.RoomStatusCompleted {
		snap.Standings = standings(snap.Participants)
	}
	return snap
}

func standings(participants []models.Participant) []Standing {
	out := make([]Standing, 0, len(participants))
	best := -1
	for _, p := range participants {
		total := scoring.Total(p.Scorecard)
		bonus := 0
		if scoring.UpperSubtotal(p.Scorecard) >= scoring.UpperBonusFloor {
			bonus = scoring.UpperBonus
		}
		out = append(out, Standing{
			ParticipantID: p.ID.String(),
			DisplayName:   p.DisplayName,
			BaseScore:     total - bonus,
			UpperBonus:    bonus,
			FinalScore:    total,
		})
		if total > best {
			best = total
		}
	}
	for i := range out {
		out[i].Winner = out[i].FinalScore == best
	}
	return out
}
