// Package turn decides who acts next. Pure data and functions only;
// the session coordinator owns all mutation.
package turn

import (
	"github.com/mdevers/yachtroom/internal/models"
)

// Next returns the participant whose turn-order follows current, wrapping
// to the lowest order after the highest, and reports whether the wrap
// constitutes a round rollover (the returned participant holds order 1).
//
// A single-participant room always returns that participant, and every
// advance is a rollover since the order wraps immediately back to 1.
func Next(participants []*models.Participant, current int) (*models.Participant, bool) {
	if len(participants) == 0 {
		return nil, false
	}

	var next *models.Participant
	for _, p := range participants {
		if p.TurnOrder <= current {
			continue
		}
		if next == nil || p.TurnOrder < next.TurnOrder {
			next = p
		}
	}

	// Wrap to the lowest order once the highest has acted.
	if next == nil {
		next = lowest(participants)
	}

	return next, next.TurnOrder == 1
}

// First returns the participant at turn-order 1 (or the lowest present order).
func First(participants []*models.Participant) *models.Participant {
	return lowest(participants)
}

func lowest(participants []*models.Participant) *models.Participant {
	var low *models.Participant
	for _, p := range participants {
		if low == nil || p.TurnOrder < low.TurnOrder {
			low = p
		}
	}
	return low
}
