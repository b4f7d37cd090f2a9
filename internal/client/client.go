package client

import (
	"context"
	"io"
	"net/http"
	"net/url"

	"github.com/go-logr/logr"
)

// Options wires the client to its surroundings. Fd is the terminal used for
// size queries; a negative Fd means a fixed Width and Height and no resize
// polling. A zero Width leaves rows unclipped.
type Options struct {
	Endpoint url.URL
	Header   http.Header
	In       io.Reader
	Out      io.Writer
	Fd       int
	Width    int
	Height   int
	Log      logr.Logger
}

// Start dials the endpoint and runs the UI until the user quits, the key
// source ends, or ctx is done. Only setup failures are returned; a broken
// connection is shown in the log and the UI stays up.
func Start(ctx context.Context, opts Options) error {
	size := termSize{width: opts.Width, height: opts.Height}
	if opts.Fd >= 0 {
		s, err := terminalSize(opts.Fd)
		if err != nil {
			return err
		}
		size = s
	}

	opts.Log.Info("connecting", "endpoint", opts.Endpoint.String())
	session, err := Dial(ctx, opts.Endpoint, opts.Header)
	if err != nil {
		return err
	}
	defer session.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	keyEvents := make(chan EventKeyPress)
	wsEvents := make(chan Frame, 64)
	var resizeEvents chan termSize
	go listenKeyEvents(ctx, opts.In, keyEvents)
	go session.Listen(ctx, wsEvents)
	if opts.Fd >= 0 {
		resizeEvents = make(chan termSize)
		go listenResizeEvents(ctx, opts.Fd, resizeEvents)
	}

	handler := NewHandler(session, opts.Log, opts.Endpoint.Host+opts.Endpoint.Path, size.height)
	handler.width = size.width
	handler.OnOpen()
	return run(ctx, handler, opts.Out, keyEvents, wsEvents, resizeEvents)
}

func run(ctx context.Context, h *Handler, out io.Writer, keyEvents <-chan EventKeyPress, wsEvents <-chan Frame, resizeEvents <-chan termSize) error {
	requireRender := true
	for {
		if requireRender {
			if err := render(out, h); err != nil {
				return err
			}
			requireRender = false
		}
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-keyEvents:
			if !ok {
				return nil
			}
			requireRender = h.handleKeypress(event)
			if h.exit {
				return nil
			}
		case frame, ok := <-wsEvents:
			if !ok {
				wsEvents = nil
				continue
			}
			requireRender = h.handleFrame(frame)
		case newSize, ok := <-resizeEvents:
			if !ok {
				resizeEvents = nil
				continue
			}
			requireRender = h.handleResize(newSize)
		}
	}
}
