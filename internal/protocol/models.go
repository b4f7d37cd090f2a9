package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
)

const ACTION_REGISTER = "register"
const ACTION_CONNECT = "connect"
const ACTION_DISCONNECT = "disconnect"
const ACTION_SEND = "send"

var ErrUnknownAction = errors.New("unknown action")

// Event is what the server pushes to every connected client.
// Text is only set for ACTION_SEND.
type Event struct {
	Action   string `json:"action"`
	Username string `json:"username"`
	Text     string `json:"text,omitempty"`
}

func Decode(payload []byte) (Event, error) {
	var event Event
	if err := json.Unmarshal(payload, &event); err != nil {
		return Event{}, fmt.Errorf("decode event: %w", err)
	}
	switch event.Action {
	case ACTION_REGISTER, ACTION_CONNECT, ACTION_DISCONNECT, ACTION_SEND:
		return event, nil
	}
	return Event{}, fmt.Errorf("decode event %q: %w", event.Action, ErrUnknownAction)
}

func Encode(event Event) ([]byte, error) {
	return json.Marshal(event)
}

// Line is the log text shown for the event, without timestamp.
func (e Event) Line() string {
	switch e.Action {
	case ACTION_REGISTER:
		return e.Username + " registered."
	case ACTION_CONNECT:
		return e.Username + " connected."
	case ACTION_DISCONNECT:
		return e.Username + " disconnected."
	case ACTION_SEND:
		return e.Username + ": " + e.Text
	}
	return ""
}

func Register(username string) Event {
	return Event{Action: ACTION_REGISTER, Username: username}
}

func Connect(username string) Event {
	return Event{Action: ACTION_CONNECT, Username: username}
}

func Disconnect(username string) Event {
	return Event{Action: ACTION_DISCONNECT, Username: username}
}

func Send(username, text string) Event {
	return Event{Action: ACTION_SEND, Username: username, Text: text}
}
