package client

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLogLineFormat(t *testing.T) {
	line := LogLine{
		Time: time.Date(2024, time.January, 1, 0, 5, 9, 999_000_000, time.Local),
		Text: "bob: hi",
	}
	assert.Equal(t, "[00:05:09] bob: hi", line.String())

	line.Time = time.Date(2024, time.January, 1, 23, 59, 59, 0, time.Local)
	assert.Equal(t, "[23:59:59] bob: hi", line.String())
}

func TestChatLogAppendOnly(t *testing.T) {
	var log ChatLog
	for _, text := range []string{"a", "b", "c"} {
		log.Append(LogLine{Text: text})
	}
	lines := log.Lines()
	lines[0].Text = "mutated"

	assert.Equal(t, 3, log.Len())
	assert.Equal(t, "a", log.Lines()[0].Text)
	assert.Len(t, log.Window(-5, 2), 2)
	assert.Len(t, log.Window(2, 50), 1)
	assert.Nil(t, log.Window(3, 1))
}

func TestRegisteredUsersString(t *testing.T) {
	var users RegisteredUsers
	assert.Equal(t, "", users.String())
	users.Prepend("alice")
	users.Prepend("bob")
	assert.Equal(t, "bob, alice", users.String())
}

func TestInputLimits(t *testing.T) {
	var input Input
	assert.False(t, input.Backspace())
	for i := 0; i < MAX_INPUT_LENGTH+10; i++ {
		input.Type('x')
	}
	assert.Equal(t, strings.Repeat("x", MAX_INPUT_LENGTH), input.Text())

	input.ToggleFocus()
	assert.False(t, input.Backspace())
	input.Clear()
	assert.Equal(t, "", input.Text())
	assert.Equal(t, Focus(FOCUS_INPUT), input.Focus())
}

func TestInputCountsRunes(t *testing.T) {
	var input Input
	for _, c := range "naïve é" {
		input.Type(c)
	}
	assert.True(t, input.Backspace())
	assert.Equal(t, "naïve ", input.Text())

	input.Clear()
	for i := 0; i < MAX_INPUT_LENGTH+1; i++ {
		input.Type('é')
	}
	assert.Equal(t, strings.Repeat("é", MAX_INPUT_LENGTH), input.Text())
}
