package client

import (
	"strings"
	"time"
	"unicode/utf8"
)

const TIME_FORMAT = "15:04:05"

type LogLine struct {
	Time time.Time
	Text string
}

func (l LogLine) String() string {
	return "[" + l.Time.Format(TIME_FORMAT) + "] " + l.Text
}

// ChatLog is append only. Lines are never edited or dropped.
type ChatLog struct {
	lines []LogLine
}

func (c *ChatLog) Append(line LogLine) {
	c.lines = append(c.lines, line)
}

func (c *ChatLog) Len() int {
	return len(c.lines)
}

// Lines returns a copy of the lines in append order.
func (c *ChatLog) Lines() []LogLine {
	return append([]LogLine(nil), c.lines...)
}

func (c *ChatLog) Window(start, end int) []LogLine {
	start = max(0, start)
	end = min(len(c.lines), end)
	if start >= end {
		return nil
	}
	return c.lines[start:end]
}

// RegisteredUsers keeps the newest registration first.
type RegisteredUsers struct {
	names []string
}

func (r *RegisteredUsers) Prepend(username string) {
	r.names = append([]string{username}, r.names...)
}

func (r *RegisteredUsers) Names() []string {
	return append([]string(nil), r.names...)
}

func (r *RegisteredUsers) String() string {
	return strings.Join(r.names, ", ")
}

const (
	FOCUS_INPUT = iota
	FOCUS_SEND_BUTTON
)

type Focus int

// MAX_INPUT_LENGTH counts runes, not bytes.
const MAX_INPUT_LENGTH = 256

// Input is the message field and the widget that currently has focus.
type Input struct {
	text  string
	focus Focus
}

func (i *Input) Text() string {
	return i.text
}

func (i *Input) Focus() Focus {
	return i.focus
}

func (i *Input) Type(char rune) bool {
	if i.focus != FOCUS_INPUT || utf8.RuneCountInString(i.text) >= MAX_INPUT_LENGTH {
		return false
	}
	i.text += string(char)
	return true
}

// Backspace removes the last rune.
func (i *Input) Backspace() bool {
	if i.focus != FOCUS_INPUT || len(i.text) == 0 {
		return false
	}
	_, size := utf8.DecodeLastRuneInString(i.text)
	i.text = i.text[:len(i.text)-size]
	return true
}

func (i *Input) ToggleFocus() {
	if i.focus == FOCUS_INPUT {
		i.focus = FOCUS_SEND_BUTTON
	} else {
		i.focus = FOCUS_INPUT
	}
}

// Clear empties the field and gives it focus back.
func (i *Input) Clear() {
	i.text = ""
	i.focus = FOCUS_INPUT
}

func (i *Input) SetText(text string) {
	i.text = text
}
