package turn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mdevers/yachtroom/internal/models"
)

func participantsWithOrders(orders ...int) []*models.Participant {
	out := make([]*models.Participant, 0, len(orders))
	for _, o := range orders {
		out = append(out, &models.Participant{TurnOrder: o})
	}
	return out
}

func TestNextAdvancesInOrder(t *testing.T) {
	ps := participantsWithOrders(1, 2, 3)

	next, rollover := Next(ps, 1)
	assert.Equal(t, 2, next.TurnOrder)
	assert.False(t, rollover)

	next, rollover = Next(ps, 2)
	assert.Equal(t, 3, next.TurnOrder)
	assert.False(t, rollover)
}

func TestNextWrapsWithRollover(t *testing.T) {
	ps := participantsWithOrders(1, 2, 3)

	next, rollover := Next(ps, 3)
	assert.Equal(t, 1, next.TurnOrder)
	assert.True(t, rollover)
}

func TestNextSkipsGapsInOrder(t *testing.T) {
	// Orders need not be contiguous.
	ps := participantsWithOrders(1, 4, 7)

	next, rollover := Next(ps, 1)
	assert.Equal(t, 4, next.TurnOrder)
	assert.False(t, rollover)

	next, rollover = Next(ps, 7)
	assert.Equal(t, 1, next.TurnOrder)
	assert.True(t, rollover)
}

func TestNextSingleParticipant(t *testing.T) {
	ps := participantsWithOrders(1)

	next, rollover := Next(ps, 1)
	assert.Equal(t, 1, next.TurnOrder)
	assert.True(t, rollover)
}

func TestNextEmpty(t *testing.T) {
	next, rollover := Next(nil, 1)
	assert.Nil(t, next)
	assert.False(t, rollover)
}

func TestFullCycleHasExactlyOneRollover(t *testing.T) {
	ps := participantsWithOrders(1, 2, 3, 4)

	current := 1
	rollovers := 0
	for i := 0; i < len(ps); i++ {
		next, rollover := Next(ps, current)
		require.NotNil(t, next)
		if rollover {
			rollovers++
		}
		current = next.TurnOrder
	}

	assert.Equal(t, 1, rollovers)
	assert.Equal(t, 1, current)
}

func TestFirst(t *testing.T) {
	assert.Equal(t, 2, First(participantsWithOrders(5, 2, 9)).TurnOrder)
}
