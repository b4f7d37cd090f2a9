package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/0ya-sh0/GoChatLog/internal/client"
	"github.com/0ya-sh0/GoChatLog/internal/config"
	"github.com/0ya-sh0/GoChatLog/internal/hlog"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:   "chatlog",
	Short: "Terminal client for a websocket chat room",
	Args:  cobra.NoArgs,
	RunE:  runClient,

	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default ./chatlog.yaml or ~/.chatlog/chatlog.yaml)")
	config.ClientFlags(rootCmd.Flags())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runClient(cmd *cobra.Command, args []string) error {
	v, err := config.New(configFile)
	if err != nil {
		return err
	}
	cfg, err := config.LoadClient(v, cmd.Flags())
	if err != nil {
		return err
	}

	zl, logCloser, err := hlog.NewFile(cfg.LogFile, cfg.Verbose)
	if err != nil {
		return err
	}
	defer logCloser.Close()
	log := hlog.Logr(zl, "client")

	header := http.Header{}
	if cfg.Cookie != "" {
		header.Set("Cookie", cfg.Cookie)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fd := int(os.Stdin.Fd())
	restore, err := client.SetupTerminal(fd, os.Stdout)
	if err != nil {
		return err
	}
	err = client.Start(ctx, client.Options{
		Endpoint: cfg.URL(),
		Header:   header,
		In:       os.Stdin,
		Out:      os.Stdout,
		Fd:       fd,
		Log:      log,
	})
	restore()
	if err != nil {
		log.Error(err, "client stopped")
		return fmt.Errorf("chatlog: %w", err)
	}
	return nil
}
