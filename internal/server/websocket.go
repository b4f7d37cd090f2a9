package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/0ya-sh0/GoChatLog/internal/protocol"
)

var wsUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

const writeWait = time.Second

// Routes serves the chat websocket on /ws/.
func (b *Broker) Routes() http.Handler {
	r := chi.NewRouter()
	r.Get("/ws/", b.HandleWebsocketConnection)
	r.Get("/ws", b.HandleWebsocketConnection)
	return r
}

func (b *Broker) HandleWebsocketConnection(w http.ResponseWriter, r *http.Request) {
	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		b.log.Debug().Err(err).Msg("upgrade failed")
		return
	}
	username := r.URL.Query().Get("username")
	if username == "" {
		username = DEFAULT_USERNAME
	}
	select {
	case b.joinUserRequests <- JoinUserRequest{username: username, conn: conn}:
	case <-b.stop:
		conn.Close()
	}
}

func messageSender(conn *websocket.Conn, inbox <-chan protocol.Event) {
	draining := false
	for {
		message, ok := <-inbox
		if !ok {
			return
		}
		if draining {
			continue
		}
		payload, err := protocol.Encode(message)
		if err != nil {
			continue
		}
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			draining = true
			conn.Close()
		}
	}
}

// messageReciever turns each non-empty text frame into a send event. Any
// other frame type ends the session.
func messageReciever(user User, outbox chan<- protocol.Event, leave chan<- LeaveUserRequest, stop <-chan struct{}) {
	defer func() {
		user.conn.Close()
		select {
		case leave <- LeaveUserRequest{id: user.id}:
		case <-stop:
		}
	}()
	for {
		messageType, payload, err := user.conn.ReadMessage()
		if err != nil || messageType != websocket.TextMessage {
			return
		}
		if len(payload) == 0 {
			continue
		}
		select {
		case outbox <- protocol.Send(user.username, string(payload)):
		case <-stop:
			return
		}
	}
}
