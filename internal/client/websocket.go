package client

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Session is the outbound half of the transport as the Handler sees it.
type Session interface {
	SendText(text string) error
	Close() error
}

// Frame is one thing that happened on the inbound half of the transport.
// Exactly one field is meaningful: Payload for a text frame, Err for a
// failure. The stream of frames ends with Closed set.
type Frame struct {
	Payload []byte
	Err     error
	Closed  bool
}

// WSSession is a Session over a gorilla websocket connection.
type WSSession struct {
	conn      *websocket.Conn
	writeLock sync.Mutex
	closeOnce sync.Once
}

const writeWait = time.Second

// Dial opens the one session this client uses. No retries.
func Dial(ctx context.Context, endpoint url.URL, header http.Header) (*WSSession, error) {
	c, _, err := websocket.DefaultDialer.DialContext(ctx, endpoint.String(), header)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", endpoint.String(), err)
	}
	return &WSSession{conn: c}, nil
}

func (s *WSSession) SendText(text string) error {
	s.writeLock.Lock()
	defer s.writeLock.Unlock()
	s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteMessage(websocket.TextMessage, []byte(text))
}

// Close sends a close frame and releases the connection. Safe to call twice.
func (s *WSSession) Close() error {
	var err error
	s.closeOnce.Do(func() {
		s.writeLock.Lock()
		s.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(writeWait))
		s.writeLock.Unlock()
		err = s.conn.Close()
	})
	return err
}

// Listen blocks reading inbound frames into frames and closes it when the
// connection ends or ctx is done.
func (s *WSSession) Listen(ctx context.Context, frames chan<- Frame) {
	listenWSEvents(ctx, s.conn, frames)
}

// listenWSEvents forwards inbound text frames until the connection ends or
// ctx is done.
// A clean close yields only the Closed frame; anything else is reported as
// an error first.
func listenWSEvents(ctx context.Context, conn *websocket.Conn, frames chan<- Frame) {
	defer close(frames)
	send := func(frame Frame) bool {
		select {
		case frames <- frame:
			return true
		case <-ctx.Done():
			return false
		}
	}
	for {
		messageType, payload, err := conn.ReadMessage()
		if err != nil {
			if !isCleanClose(err) && !send(Frame{Err: err}) {
				return
			}
			send(Frame{Closed: true})
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}
		if !send(Frame{Payload: payload}) {
			return
		}
	}
}

func isCleanClose(err error) bool {
	if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
		return true
	}
	return errors.Is(err, net.ErrClosed)
}
