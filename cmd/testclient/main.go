package main

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/0ya-sh0/GoChatLog/internal/hlog"
	"github.com/0ya-sh0/GoChatLog/internal/protocol"
)

var rootCmd = &cobra.Command{
	Use:   "chatlog-testclient",
	Short: "Open several scripted sessions that send numbered messages",
	Args:  cobra.NoArgs,
	RunE:  runBots,

	SilenceUsage: true,
}

var (
	flagHost     string
	flagBots     int
	flagCount    int
	flagInterval time.Duration
	flagVerbose  bool
)

func init() {
	flags := rootCmd.Flags()
	flags.StringVar(&flagHost, "host", "localhost:8080", "chat server host[:port]")
	flags.IntVarP(&flagBots, "bots", "n", 2, "number of sessions")
	flags.IntVarP(&flagCount, "count", "c", 10, "messages per session")
	flags.DurationVar(&flagInterval, "interval", 200*time.Millisecond, "delay between messages")
	flags.BoolVarP(&flagVerbose, "verbose", "v", false, "log every received event")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal().Err(err).Msg("execute testclient command")
	}
}

func runBots(cmd *cobra.Command, args []string) error {
	log.Logger = hlog.NewConsole(os.Stderr, flagVerbose)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var wg sync.WaitGroup
	for i := 0; i < flagBots; i++ {
		name := fmt.Sprintf("bot%d", i)
		c, err := connect(ctx, name)
		if err != nil {
			return err
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer c.Close()
			go receive(name, c)
			send(ctx, name, c)
		}()
	}
	wg.Wait()
	return nil
}

func connect(ctx context.Context, name string) (*websocket.Conn, error) {
	u := url.URL{Scheme: "ws", Host: flagHost, Path: "/ws/", RawQuery: url.Values{"username": {name}}.Encode()}
	log.Info().Str("bot", name).Msgf("connecting to %s", u.String())
	c, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", u.String(), err)
	}
	return c, nil
}

func receive(name string, c *websocket.Conn) {
	for {
		_, payload, err := c.ReadMessage()
		if err != nil {
			log.Debug().Str("bot", name).Err(err).Msg("receive stopped")
			return
		}
		event, err := protocol.Decode(payload)
		if err != nil {
			log.Warn().Str("bot", name).Err(err).Msg("bad event")
			continue
		}
		log.Debug().Str("bot", name).Msg(event.Line())
	}
}

func send(ctx context.Context, name string, c *websocket.Conn) {
	ticker := time.NewTicker(flagInterval)
	defer ticker.Stop()
	for i := 0; i < flagCount; i++ {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		if err := c.WriteMessage(websocket.TextMessage, []byte(fmt.Sprintf("m %d", i))); err != nil {
			log.Error().Str("bot", name).Err(err).Msg("send failed")
			return
		}
	}
	c.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	log.Info().Str("bot", name).Int("sent", flagCount).Msg("done")
}
