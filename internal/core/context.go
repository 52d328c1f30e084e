package core

import "github.com/keshon/server-soundboard/internal/chat"

// MessageContext is handed to text commands as their invocation payload.
type MessageContext struct {
	Service *Service
	Message *chat.Message
}
