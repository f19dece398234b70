package chat

import (
	"errors"
	"fmt"
)

// Coordinator operations report failures through this taxonomy. All of them
// are recoverable: the transport layer turns them into typed error events on
// the originating connection and the coordinator keeps running.
var (
	ErrInvalidName       = errors.New("username must be between 2 and 20 characters")
	ErrNameTaken         = errors.New("username is already taken")
	ErrRoomNotFound      = errors.New("room not found")
	ErrNotInRoom         = errors.New("not in a room")
	ErrEmptyMessage      = errors.New("message is empty")
	ErrMessageTooLong    = errors.New("message is too long")
	ErrRecipientNotFound = errors.New("recipient not found")
	ErrRestoreFailed     = errors.New("session could not be restored")
)

// NameTakenError carries alternative name suggestions alongside ErrNameTaken
// so clients can offer a retry without a round trip per guess.
type NameTakenError struct {
	Name        string
	Suggestions []string
}

func (e *NameTakenError) Error() string {
	return fmt.Sprintf("username %q is already taken", e.Name)
}

func (e *NameTakenError) Unwrap() error { return ErrNameTaken }
