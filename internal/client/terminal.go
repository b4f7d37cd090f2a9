package client

import (
	"context"
	"fmt"
	"io"
	"time"

	"golang.org/x/term"
)

const resizePollInterval = 500 * time.Millisecond

type termSize struct {
	width  int
	height int
}

// listenResizeEvents polls the terminal size and reports changes until ctx
// is done or the size can no longer be read.
func listenResizeEvents(ctx context.Context, fd int, events chan<- termSize) {
	defer close(events)
	size, err := terminalSize(fd)
	if err != nil {
		return
	}
	ticker := time.NewTicker(resizePollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		newSize, err := terminalSize(fd)
		if err != nil {
			return
		}
		if newSize != size {
			size = newSize
			select {
			case events <- size:
			case <-ctx.Done():
				return
			}
		}
	}
}

// SetupTerminal puts fd in raw mode and switches out to the alternate screen.
// The returned func undoes both.
func SetupTerminal(fd int, out io.Writer) (func(), error) {
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("raw mode: %w", err)
	}
	fmt.Fprint(out, ANSI_ENTER_ALT_SCREEN)
	return func() {
		fmt.Fprint(out, ClearScreen, CursorHome, CursorShow)
		fmt.Fprint(out, ANSI_EXIT_ALT_SCREEN)
		term.Restore(fd, oldState)
	}, nil
}

func terminalSize(fd int) (termSize, error) {
	w, h, err := term.GetSize(fd)
	if err != nil {
		return termSize{}, fmt.Errorf("terminal size: %w", err)
	}
	return termSize{width: w, height: h}, nil
}
