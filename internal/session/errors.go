package session

import "fmt"

// ErrorKind identifies the rejection class sent back to the offending
// connection. Kinds are stable wire values.
type ErrorKind string

const (
	KindIdentityNotFound      ErrorKind = "IdentityNotFound"
	KindRoomNotFound          ErrorKind = "RoomNotFound"
	KindRoomNotJoinable       ErrorKind = "RoomNotJoinable"
	KindRoomFull              ErrorKind = "RoomFull"
	KindNotHost               ErrorKind = "NotHost"
	KindNoParticipants        ErrorKind = "NoParticipants"
	KindNotYourTurn           ErrorKind = "NotYourTurn"
	KindNoRollsLeft           ErrorKind = "NoRollsLeft"
	KindCategoryAlreadyScored ErrorKind = "CategoryAlreadyScored"
	KindNotAuthenticated      ErrorKind = "NotAuthenticated"
	KindMalformedAction       ErrorKind = "MalformedAction"
	KindInternalFailure       ErrorKind = "InternalFailure"
)

// Error is a game-rule rejection. It is recovered at the coordinator
// boundary and never crashes the process.
type Error struct {
	Kind   ErrorKind
	Detail string
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

func newError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

// KindOf extracts the error kind, defaulting to InternalFailure for
// anything that is not a game-rule rejection.
func KindOf(err error) ErrorKind {
	if e, ok := err.(*Error); ok {
		return e.Kind
	}
	return KindInternalFailure
}
