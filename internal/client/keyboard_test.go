package client

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadKey(t *testing.T) {
	input := []byte{'h', KEY_TAB, KEY_ENTER, KEY_BACKSPACE, KEY_CTRL_C}
	input = append(input, KEY_UP...)
	input = append(input, KEY_DOWN...)
	input = append(input, 0x01)

	reader := newKeyReader(bytes.NewReader(input))
	want := []EventKeyPress{
		{KeyType: KEY_TYPE_PRINTABLE, Char: 'h'},
		{KeyType: KEY_TYPE_TAB, Char: KEY_TAB},
		{KeyType: KEY_TYPE_ENTER, Char: KEY_ENTER},
		{KeyType: KEY_TYPE_BACKSPACE, Char: KEY_BACKSPACE},
		{KeyType: KEY_TYPE_CTRL_C, Char: KEY_CTRL_C},
		{KeyType: KEY_TYPE_UP_ARROW},
		{KeyType: KEY_TYPE_DOWN_ARROW},
		{KeyType: KEY_TYPE_UNKNOWN, Char: 0x01},
	}
	for _, w := range want {
		event, err := reader.readKey()
		require.NoError(t, err)
		assert.Equal(t, w, event)
	}

	_, err := reader.readKey()
	assert.ErrorIs(t, err, io.EOF)
}

func TestReadKeyLoneEscape(t *testing.T) {
	reader := newKeyReader(bytes.NewReader([]byte{KEY_ESC}))
	event, err := reader.readKey()
	require.NoError(t, err)
	assert.Equal(t, KeyType(KEY_TYPE_ESC), event.KeyType)
}

func TestListenKeyEventsStopsOnCtrlD(t *testing.T) {
	events := make(chan EventKeyPress, 8)
	listenKeyEvents(context.Background(), bytes.NewReader([]byte{'a', KEY_CTRL_D, 'b'}), events)

	var got []EventKeyPress
	for event := range events {
		got = append(got, event)
	}
	assert.Equal(t, []EventKeyPress{{KeyType: KEY_TYPE_PRINTABLE, Char: 'a'}}, got)
}

func TestReadKeyMultibyteRune(t *testing.T) {
	reader := newKeyReader(strings.NewReader("é世\x9b"))
	for _, want := range []rune{'é', '世'} {
		event, err := reader.readKey()
		require.NoError(t, err)
		assert.Equal(t, KeyType(KEY_TYPE_PRINTABLE), event.KeyType)
		assert.Equal(t, want, event.Char)
	}

	event, err := reader.readKey()
	require.NoError(t, err)
	assert.Equal(t, KeyType(KEY_TYPE_UNKNOWN), event.KeyType)
}

func TestListenKeyEventsReturnsWhenNobodyReads(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	events := make(chan EventKeyPress)
	done := make(chan struct{})
	go func() {
		listenKeyEvents(ctx, strings.NewReader("abc"), events)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("listenKeyEvents still blocked after cancel")
	}
	for range events {
	}
}
