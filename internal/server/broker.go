package server

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/0ya-sh0/GoChatLog/internal/protocol"
)

// Broker owns membership. Only the goroutine started by Start touches users
// and registered; everything else talks to it over channels.
type Broker struct {
	log        zerolog.Logger
	users      map[uint64]User
	registered map[string]bool
	nextID     uint64

	joinUserRequests  chan JoinUserRequest
	leaveUserRequests chan LeaveUserRequest
	messageBroker     chan protocol.Event

	stop     chan struct{}
	stopped  chan struct{}
	stopOnce sync.Once
}

func NewBroker(log zerolog.Logger) *Broker {
	return &Broker{
		log:               log,
		users:             make(map[uint64]User),
		registered:        make(map[string]bool),
		joinUserRequests:  make(chan JoinUserRequest, 64),
		leaveUserRequests: make(chan LeaveUserRequest, 64),
		messageBroker:     make(chan protocol.Event, 1024),
		stop:              make(chan struct{}),
		stopped:           make(chan struct{}),
	}
}

func (b *Broker) Start() {
	go func() {
		defer close(b.stopped)
		for {
			select {
			case request := <-b.joinUserRequests:
				b.handleJoinUserRequest(request)
			case event := <-b.messageBroker:
				b.broadcast(event)
			case request := <-b.leaveUserRequests:
				b.handleLeaveUser(request.id)
			case <-b.stop:
				b.handleStop()
				return
			}
		}
	}()
}

// Stop closes every session and waits for the broker goroutine to exit.
func (b *Broker) Stop() {
	b.stopOnce.Do(func() { close(b.stop) })
	<-b.stopped
}

func (b *Broker) handleStop() {
	for id, user := range b.users {
		close(user.messageBox)
		user.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutdown"),
			time.Now().Add(time.Second))
		user.conn.Close()
		delete(b.users, id)
	}
	b.log.Info().Msg("broker stopped")
}

func (b *Broker) handleJoinUserRequest(request JoinUserRequest) {
	b.nextID++
	joinedUser := User{
		id:         b.nextID,
		username:   request.username,
		conn:       request.conn,
		messageBox: make(chan protocol.Event, OUTBOX_SIZE),
	}
	b.users[joinedUser.id] = joinedUser
	b.log.Info().Str("username", joinedUser.username).Uint64("id", joinedUser.id).Msg("join user")

	go messageReciever(joinedUser, b.messageBroker, b.leaveUserRequests, b.stop)
	go messageSender(joinedUser.conn, joinedUser.messageBox)

	if !b.registered[joinedUser.username] {
		b.registered[joinedUser.username] = true
		b.broadcast(protocol.Register(joinedUser.username))
	}
	b.broadcast(protocol.Connect(joinedUser.username))
}

func (b *Broker) handleLeaveUser(id uint64) {
	user, has := b.users[id]
	if !has {
		return
	}
	close(user.messageBox)
	delete(b.users, id)
	b.log.Info().Str("username", user.username).Uint64("id", id).Msg("leave user")
	b.broadcast(protocol.Disconnect(user.username))
}

// broadcast queues event for every session. A session whose outbox is full
// misses the event rather than stalling the broker.
func (b *Broker) broadcast(event protocol.Event) {
	for _, user := range b.users {
		select {
		case user.messageBox <- event:
		default:
			b.log.Warn().Str("username", user.username).Str("action", event.Action).Msg("outbox full, dropping event")
		}
	}
}
