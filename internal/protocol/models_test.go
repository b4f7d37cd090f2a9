package protocol_test

import (
	"testing"

	"github.com/0ya-sh0/GoChatLog/internal/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    protocol.Event
		line    string
	}{
		{
			name:    "register",
			payload: `{"action":"register","username":"alice"}`,
			want:    protocol.Register("alice"),
			line:    "alice registered.",
		},
		{
			name:    "connect",
			payload: `{"action":"connect","username":"bob"}`,
			want:    protocol.Connect("bob"),
			line:    "bob connected.",
		},
		{
			name:    "disconnect",
			payload: `{"action":"disconnect","username":"bob"}`,
			want:    protocol.Disconnect("bob"),
			line:    "bob disconnected.",
		},
		{
			name:    "send",
			payload: `{"action":"send","username":"alice","text":"hi there"}`,
			want:    protocol.Send("alice", "hi there"),
			line:    "alice: hi there",
		},
		{
			name:    "send without text",
			payload: `{"action":"send","username":"alice"}`,
			want:    protocol.Send("alice", ""),
			line:    "alice: ",
		},
		{
			name:    "extra fields are ignored",
			payload: `{"action":"connect","username":"carol","at":12}`,
			want:    protocol.Connect("carol"),
			line:    "carol connected.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event, err := protocol.Decode([]byte(tt.payload))
			require.NoError(t, err)
			assert.Equal(t, tt.want, event)
			assert.Equal(t, tt.line, event.Line())
		})
	}
}

func TestDecodeRejectsMalformed(t *testing.T) {
	_, err := protocol.Decode([]byte(`not json`))
	assert.Error(t, err)

	_, err = protocol.Decode([]byte(`{"action":"kick","username":"x"}`))
	assert.ErrorIs(t, err, protocol.ErrUnknownAction)

	_, err = protocol.Decode([]byte(`{}`))
	assert.ErrorIs(t, err, protocol.ErrUnknownAction)
}

func TestEncodeOmitsEmptyText(t *testing.T) {
	payload, err := protocol.Encode(protocol.Connect("dave"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"action":"connect","username":"dave"}`, string(payload))

	payload, err = protocol.Encode(protocol.Send("dave", "yo"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"action":"send","username":"dave","text":"yo"}`, string(payload))
}
