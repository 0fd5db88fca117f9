package gateway

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/mdevers/yachtroom/internal/models"
	"github.com/mdevers/yachtroom/internal/session"
)

// ActionType names an inbound client action. One action per transport
// message.
type ActionType string

const (
	ActionRegister      ActionType = "register-connection"
	ActionStartRoom     ActionType = "start-room"
	ActionRollDice      ActionType = "roll-dice"
	ActionSelectDice    ActionType = "select-dice"
	ActionScoreCategory ActionType = "score-category"
	ActionPassTurn      ActionType = "pass-turn"
	ActionToggleReady   ActionType = "toggle-ready"
	ActionRestartRoom   ActionType = "restart-room"
	ActionChat          ActionType = "chat"
)

// envelope is the common shape of every inbound message; the payload is
// decoded per action.
type envelope struct {
	Action ActionType `json:"action"`

	RegisterPayload
	RollPayload
	SelectPayload
	ScorePayload
	ChatPayload
}

type RegisterPayload struct {
	RoomID        uuid.UUID `json:"room_id"`
	ParticipantID uuid.UUID `json:"participant_id"`
}

type RollPayload struct {
	HoldMask []bool `json:"hold_mask"`
}

type SelectPayload struct {
	Indices []int `json:"indices"`
}

type ScorePayload struct {
	Category models.Category `json:"category"`
}

type ChatPayload struct {
	Message string `json:"message"`
}

// action is the decoded tagged union of all client actions.
type action struct {
	Type     ActionType
	Register RegisterPayload
	Roll     RollPayload
	Select   SelectPayload
	Score    ScorePayload
	Chat     ChatPayload
}

// decodeAction parses an inbound frame, rejecting anything that does not
// resolve to a known action variant.
func decodeAction(data []byte) (*action, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("unparseable action: %w", err)
	}

	act := &action{Type: env.Action}
	switch env.Action {
	case ActionRegister:
		if env.RoomID == uuid.Nil || env.ParticipantID == uuid.Nil {
			return nil, fmt.Errorf("register-connection requires room_id and participant_id")
		}
		act.Register = env.RegisterPayload
	case ActionRollDice:
		act.Roll = env.RollPayload
	case ActionSelectDice:
		act.Select = env.SelectPayload
	case ActionScoreCategory:
		if env.Category == "" {
			return nil, fmt.Errorf("score-category requires category")
		}
		act.Score = env.ScorePayload
	case ActionChat:
		act.Chat = env.ChatPayload
	case ActionStartRoom, ActionPassTurn, ActionToggleReady, ActionRestartRoom:
		// No payload beyond the action name.
	default:
		return nil, fmt.Errorf("unknown action %q", env.Action)
	}
	return act, nil
}

// Outbound message types.
const (
	msgTypeState = "state"
	msgTypeError = "error"
	msgTypeTimer = "timer"
	msgTypeChat  = "chat"
)

type stateMessage struct {
	Type     string            `json:"type"`
	Snapshot *session.Snapshot `json:"snapshot"`
}

type errorMessage struct {
	Type   string            `json:"type"`
	Kind   session.ErrorKind `json:"kind"`
	Detail string            `json:"detail"`
}

type timerMessage struct {
	Type          string `json:"type"`
	SecondsLeft   int    `json:"seconds_left"`
	ParticipantID string `json:"participant_id"`
}

type chatMessage struct {
	Type          string `json:"type"`
	ParticipantID string `json:"participant_id"`
	Message       string `json:"message"`
}
