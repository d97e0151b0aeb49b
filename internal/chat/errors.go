package chat

import "errors"

var (
	// ErrAccountNotFound means the sender or receiver id does not resolve to
	// a registered account. Detected before any write.
	ErrAccountNotFound = errors.New("account not found")

	// ErrInvalidContent means the message body is empty after trimming or
	// exceeds the maximum content length. Detected before any write.
	ErrInvalidContent = errors.New("invalid message content")
)
