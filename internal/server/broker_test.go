package server_test

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0ya-sh0/GoChatLog/internal/protocol"
	"github.com/0ya-sh0/GoChatLog/internal/server"
)

func setupBroker(t *testing.T) (*server.Broker, *httptest.Server) {
	t.Helper()
	broker := server.NewBroker(zerolog.Nop())
	broker.Start()
	testServer := httptest.NewServer(broker.Routes())
	t.Cleanup(func() {
		testServer.Close()
		broker.Stop()
	})
	return broker, testServer
}

func dial(t *testing.T, testServer *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(testServer.URL, "http") + "/ws/" + query
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err, "Failed to connect to chat websocket")
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) protocol.Event {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, payload, err := conn.ReadMessage()
	require.NoError(t, err)
	event, err := protocol.Decode(payload)
	require.NoError(t, err)
	return event
}

func TestBrokerBroadcastsLifecycle(t *testing.T) {
	_, testServer := setupBroker(t)

	alice := dial(t, testServer, "?username=alice")
	assert.Equal(t, protocol.Register("alice"), readEvent(t, alice))
	assert.Equal(t, protocol.Connect("alice"), readEvent(t, alice))

	bob := dial(t, testServer, "?username=bob")
	assert.Equal(t, protocol.Register("bob"), readEvent(t, bob))
	assert.Equal(t, protocol.Connect("bob"), readEvent(t, bob))
	assert.Equal(t, protocol.Register("bob"), readEvent(t, alice))
	assert.Equal(t, protocol.Connect("bob"), readEvent(t, alice))

	require.NoError(t, alice.WriteMessage(websocket.TextMessage, []byte("")))
	require.NoError(t, alice.WriteMessage(websocket.TextMessage, []byte("hi bob")))
	assert.Equal(t, protocol.Send("alice", "hi bob"), readEvent(t, alice))
	assert.Equal(t, protocol.Send("alice", "hi bob"), readEvent(t, bob))

	bob.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	bob.Close()
	assert.Equal(t, protocol.Disconnect("bob"), readEvent(t, alice))

	again := dial(t, testServer, "?username=bob")
	assert.Equal(t, protocol.Connect("bob"), readEvent(t, again))
	assert.Equal(t, protocol.Connect("bob"), readEvent(t, alice))
}

func TestBrokerDefaultUsername(t *testing.T) {
	_, testServer := setupBroker(t)

	conn := dial(t, testServer, "")
	assert.Equal(t, protocol.Register(server.DEFAULT_USERNAME), readEvent(t, conn))
}

func TestBrokerBinaryFrameEndsSession(t *testing.T) {
	_, testServer := setupBroker(t)

	alice := dial(t, testServer, "?username=alice")
	readEvent(t, alice)
	readEvent(t, alice)
	carol := dial(t, testServer, "?username=carol")
	readEvent(t, alice)
	readEvent(t, alice)

	require.NoError(t, carol.WriteMessage(websocket.BinaryMessage, []byte{1, 2, 3}))
	assert.Equal(t, protocol.Disconnect("carol"), readEvent(t, alice))
}

func TestBrokerStopClosesSessions(t *testing.T) {
	broker, testServer := setupBroker(t)

	alice := dial(t, testServer, "?username=alice")
	readEvent(t, alice)
	readEvent(t, alice)

	broker.Stop()

	alice.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := alice.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway), "unexpected error: %v", err)
}
