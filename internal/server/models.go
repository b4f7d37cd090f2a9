package server

import (
	"github.com/gorilla/websocket"

	"github.com/0ya-sh0/GoChatLog/internal/protocol"
)

const DEFAULT_USERNAME = "anonymous"

const OUTBOX_SIZE = 256

type JoinUserRequest struct {
	username string
	conn     *websocket.Conn
}

// User is one websocket session. The same username may be connected more
// than once, so users are keyed by id.
type User struct {
	id         uint64
	username   string
	conn       *websocket.Conn
	messageBox chan protocol.Event
}

type LeaveUserRequest struct {
	id uint64
}
