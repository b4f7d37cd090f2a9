package client

import (
	"strings"
	"time"

	"github.com/go-logr/logr"

	"github.com/0ya-sh0/GoChatLog/internal/protocol"
)

const CONNECTION_BROKEN = "The connection is broken."

const (
	CONN_CONNECTING ConnState = iota
	CONN_OPEN
	CONN_CLOSED
)

type ConnState int

func (s ConnState) String() string {
	switch s {
	case CONN_CONNECTING:
		return "connecting"
	case CONN_OPEN:
		return "open"
	default:
		return "closed"
	}
}

// Handler owns every piece of UI state and reacts to transport and keyboard
// events. All methods are called from the single event loop; the bool they
// return tells the loop whether a redraw is needed.
type Handler struct {
	session  Session
	log      logr.Logger
	now      func() time.Time
	endpoint string

	state ConnState
	chat  ChatLog
	users RegisteredUsers
	input Input

	width         int
	height        int
	messageScroll int
	follow        bool
	exit          bool
}

func NewHandler(session Session, log logr.Logger, endpoint string, height int) *Handler {
	return &Handler{
		session:  session,
		log:      log,
		now:      time.Now,
		endpoint: endpoint,
		state:    CONN_CONNECTING,
		height:   height,
		follow:   true,
	}
}

func (h *Handler) State() ConnState { return h.state }
func (h *Handler) Lines() []LogLine { return h.chat.Lines() }
func (h *Handler) RegisteredUsers() []string { return h.users.Names() }
func (h *Handler) InputText() string { return h.input.Text() }
func (h *Handler) InputFocus() Focus { return h.input.Focus() }
func (h *Handler) Exit() bool { return h.exit }

func (h *Handler) OnOpen() bool {
	if h.state != CONN_CONNECTING {
		return false
	}
	h.state = CONN_OPEN
	h.log.Info("connection open", "endpoint", h.endpoint)
	return true
}

// OnMessage renders one inbound payload. Payloads that do not decode, and
// anything arriving after the connection closed, leave the log untouched.
func (h *Handler) OnMessage(payload []byte) bool {
	if h.state == CONN_CLOSED {
		h.log.V(1).Info("dropping message after close", "payload", string(payload))
		return false
	}
	event, err := protocol.Decode(payload)
	if err != nil {
		h.log.V(1).Info("ignoring inbound payload", "error", err.Error(), "payload", string(payload))
		return false
	}
	if event.Action == protocol.ACTION_REGISTER {
		h.users.Prepend(event.Username)
	}
	h.appendLine(event.Line())
	return true
}

func (h *Handler) OnClose() bool {
	if h.state == CONN_CLOSED {
		return false
	}
	h.state = CONN_CLOSED
	h.appendLine(CONNECTION_BROKEN)
	h.log.Info("connection closed", "endpoint", h.endpoint)
	return true
}

func (h *Handler) OnError(err error) bool {
	h.log.Error(err, "transport error", "endpoint", h.endpoint)
	return false
}

// SendText transmits the trimmed input as a raw text frame, then clears the
// field and focuses it. Blank input and a session that is not open send
// nothing.
func (h *Handler) SendText() bool {
	text := strings.TrimSpace(h.input.Text())
	if text == "" {
		return false
	}
	if h.state != CONN_OPEN {
		h.log.V(1).Info("not sending, connection is "+h.state.String(), "text", text)
		return false
	}
	if err := h.session.SendText(text); err != nil {
		h.OnError(err)
		return false
	}
	h.input.Clear()
	return true
}

func (h *Handler) handleFrame(frame Frame) bool {
	switch {
	case frame.Closed:
		return h.OnClose()
	case frame.Err != nil:
		return h.OnError(frame.Err)
	}
	return h.OnMessage(frame.Payload)
}

func (h *Handler) appendLine(text string) {
	h.chat.Append(LogLine{Time: h.now(), Text: text})
	if h.follow {
		h.updateChatScroll(0)
	}
}

func (h *Handler) handleResize(size termSize) bool {
	h.width = size.width
	h.height = size.height
	if h.follow {
		h.updateChatScroll(0)
	} else {
		h.messageScroll = min(h.messageScroll, h.maximumStart())
	}
	return true
}

func (h *Handler) logHeight() int {
	return max(1, h.height-FIXED)
}

func (h *Handler) maximumStart() int {
	return max(0, h.chat.Len()-h.logHeight())
}

// updateChatScroll moves the first visible line by delta; delta 0 jumps to
// the newest lines. The view follows new lines while it sits at the bottom.
func (h *Handler) updateChatScroll(delta int) bool {
	prevMessageScroll := h.messageScroll
	if delta == 0 {
		h.messageScroll = h.maximumStart()
	} else {
		h.messageScroll = max(0, h.messageScroll+delta)
		h.messageScroll = min(h.messageScroll, h.maximumStart())
	}
	h.follow = h.messageScroll == h.maximumStart()
	return prevMessageScroll != h.messageScroll
}

func (h *Handler) visibleLines() []LogLine {
	return h.chat.Window(h.messageScroll, h.messageScroll+h.logHeight())
}

func (h *Handler) handleKeypress(event EventKeyPress) bool {
	switch event.KeyType {
	case KEY_TYPE_CTRL_C:
		h.exit = true
		return false
	case KEY_TYPE_UP_ARROW:
		return h.updateChatScroll(-1)
	case KEY_TYPE_DOWN_ARROW:
		return h.updateChatScroll(1)
	case KEY_TYPE_TAB:
		h.input.ToggleFocus()
		return true
	case KEY_TYPE_ENTER:
		return h.SendText()
	case KEY_TYPE_PRINTABLE:
		if h.input.Focus() == FOCUS_SEND_BUTTON && event.Char == ' ' {
			return h.SendText()
		}
		return h.input.Type(event.Char)
	case KEY_TYPE_BACKSPACE:
		return h.input.Backspace()
	}
	return false
}
