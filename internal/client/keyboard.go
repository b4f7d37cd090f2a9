package client

import (
	"bufio"
	"context"
	"io"
	"time"
	"unicode"
	"unicode/utf8"
)

const (
	KEY_CTRL_C    = 0x03 // interrupt
	KEY_CTRL_D    = 0x04 // EOF
	KEY_TAB       = 0x09
	KEY_LINE_FEED = 0x0A
	KEY_ENTER     = 0x0D // carriage return
	KEY_ESC       = 0x1B
	KEY_BACKSPACE = 0x7F // DEL (most terminals)
	KEY_CTRL_H    = 0x08
)

// Printable means a graphic rune or space: no C0, DEL or C1 controls.
func isPrintable(r rune) bool {
	return r >= 0x20 && r != 0x7F && unicode.IsPrint(r)
}

var (
	KEY_UP    = []byte{0x1B, 0x5B, 'A'}
	KEY_DOWN  = []byte{0x1B, 0x5B, 'B'}
	KEY_RIGHT = []byte{0x1B, 0x5B, 'C'}
	KEY_LEFT  = []byte{0x1B, 0x5B, 'D'}
)

const (
	KEY_TYPE_PRINTABLE = iota
	KEY_TYPE_CTRL_C
	KEY_TYPE_ESC
	KEY_TYPE_UP_ARROW
	KEY_TYPE_DOWN_ARROW
	KEY_TYPE_LEFT_ARROW
	KEY_TYPE_RIGHT_ARROW
	KEY_TYPE_ENTER
	KEY_TYPE_BACKSPACE
	KEY_TYPE_TAB
	KEY_TYPE_UNKNOWN
)

type KeyType int

type EventKeyPress struct {
	KeyType KeyType
	Char    rune
}

// deadliner is implemented by *os.File; it bounds the wait for the rest of an
// escape sequence after a lone ESC.
type deadliner interface {
	SetReadDeadline(t time.Time) error
}

const escapeWait = 20 * time.Millisecond

// listenKeyEvents reads key presses from in and closes events on read error,
// Ctrl+D or when ctx is done.
func listenKeyEvents(ctx context.Context, in io.Reader, events chan<- EventKeyPress) {
	defer close(events)
	reader := newKeyReader(in)
	for {
		event, err := reader.readKey()
		if err != nil {
			return
		}
		select {
		case events <- event:
		case <-ctx.Done():
			return
		}
	}
}

type keyReader struct {
	in  io.Reader
	buf *bufio.Reader
}

func newKeyReader(in io.Reader) *keyReader {
	return &keyReader{in: in, buf: bufio.NewReaderSize(in, 16)}
}

func (k *keyReader) readKey() (EventKeyPress, error) {
	b, size, err := k.buf.ReadRune()
	if err != nil {
		return EventKeyPress{}, err
	}
	if b == utf8.RuneError && size == 1 {
		return EventKeyPress{KeyType: KEY_TYPE_UNKNOWN, Char: b}, nil
	}

	switch {
	case isPrintable(b):
		return EventKeyPress{KeyType: KEY_TYPE_PRINTABLE, Char: b}, nil
	case b == KEY_CTRL_C:
		return EventKeyPress{KeyType: KEY_TYPE_CTRL_C, Char: b}, nil
	case b == KEY_CTRL_D:
		return EventKeyPress{}, io.EOF
	case b == KEY_ENTER || b == KEY_LINE_FEED:
		return EventKeyPress{KeyType: KEY_TYPE_ENTER, Char: b}, nil
	case b == KEY_BACKSPACE || b == KEY_CTRL_H:
		return EventKeyPress{KeyType: KEY_TYPE_BACKSPACE, Char: b}, nil
	case b == KEY_TAB:
		return EventKeyPress{KeyType: KEY_TYPE_TAB, Char: b}, nil
	case b == KEY_ESC:
		return k.readEscape(), nil
	}

	return EventKeyPress{KeyType: KEY_TYPE_UNKNOWN, Char: b}, nil
}

func (k *keyReader) readEscape() EventKeyPress {
	if d, ok := k.in.(deadliner); ok && k.buf.Buffered() == 0 {
		d.SetReadDeadline(time.Now().Add(escapeWait))
		defer d.SetReadDeadline(time.Time{})
	}

	seq := []byte{KEY_ESC}
	for len(seq) < 3 {
		b, err := k.buf.ReadByte()
		if err != nil {
			return EventKeyPress{KeyType: KEY_TYPE_ESC, Char: KEY_ESC}
		}
		seq = append(seq, b)
	}

	switch string(seq) {
	case string(KEY_UP):
		return EventKeyPress{KeyType: KEY_TYPE_UP_ARROW}
	case string(KEY_DOWN):
		return EventKeyPress{KeyType: KEY_TYPE_DOWN_ARROW}
	case string(KEY_LEFT):
		return EventKeyPress{KeyType: KEY_TYPE_LEFT_ARROW}
	case string(KEY_RIGHT):
		return EventKeyPress{KeyType: KEY_TYPE_RIGHT_ARROW}
	}
	return EventKeyPress{KeyType: KEY_TYPE_UNKNOWN}
}
