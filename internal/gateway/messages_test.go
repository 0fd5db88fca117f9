package gateway

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mdevers/yachtroom/internal/models"
)

func TestDecodeRegister(t *testing.T) {
	roomID := uuid.New()
	participantID := uuid.New()
	frame := fmt.Sprintf(`{"action":"register-connection","room_id":%q,"participant_id":%q}`, roomID, participantID)

	act, err := decodeAction([]byte(frame))
	require.NoError(t, err)
	assert.Equal(t, ActionRegister, act.Type)
	assert.Equal(t, roomID, act.Register.RoomID)
	assert.Equal(t, participantID, act.Register.ParticipantID)
}

func TestDecodeRegisterMissingIDs(t *testing.T) {
	_, err := decodeAction([]byte(`{"action":"register-connection"}`))
	require.Error(t, err)

	_, err = decodeAction([]byte(fmt.Sprintf(`{"action":"register-connection","room_id":%q}`, uuid.New())))
	require.Error(t, err)
}

func TestDecodeRollWithHoldMask(t *testing.T) {
	act, err := decodeAction([]byte(`{"action":"roll-dice","hold_mask":[true,false,true,false,false]}`))
	require.NoError(t, err)
	assert.Equal(t, ActionRollDice, act.Type)
	assert.Equal(t, []bool{true, false, true, false, false}, act.Roll.HoldMask)

	// The mask is optional.
	act, err = decodeAction([]byte(`{"action":"roll-dice"}`))
	require.NoError(t, err)
	assert.Nil(t, act.Roll.HoldMask)
}

func TestDecodeSelect(t *testing.T) {
	act, err := decodeAction([]byte(`{"action":"select-dice","indices":[0,2,4]}`))
	require.NoError(t, err)
	assert.Equal(t, ActionSelectDice, act.Type)
	assert.Equal(t, []int{0, 2, 4}, act.Select.Indices)
}

func TestDecodeScore(t *testing.T) {
	act, err := decodeAction([]byte(`{"action":"score-category","category":"full_house"}`))
	require.NoError(t, err)
	assert.Equal(t, ActionScoreCategory, act.Type)
	assert.Equal(t, models.CategoryFullHouse, act.Score.Category)

	_, err = decodeAction([]byte(`{"action":"score-category"}`))
	require.Error(t, err)
}

func TestDecodeBareActions(t *testing.T) {
	for _, name := range []ActionType{ActionStartRoom, ActionPassTurn, ActionToggleReady, ActionRestartRoom} {
		act, err := decodeAction([]byte(fmt.Sprintf(`{"action":%q}`, name)))
		require.NoError(t, err, "action %s", name)
		assert.Equal(t, name, act.Type)
	}
}

func TestDecodeChat(t *testing.T) {
	act, err := decodeAction([]byte(`{"action":"chat","message":"nice roll"}`))
	require.NoError(t, err)
	assert.Equal(t, "nice roll", act.Chat.Message)
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := decodeAction([]byte(`{not json`))
	require.Error(t, err)

	_, err = decodeAction([]byte(`{"action":"no-such-action"}`))
	require.Error(t, err)

	_, err = decodeAction([]byte(`{}`))
	require.Error(t, err)
}
