package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/0ya-sh0/GoChatLog/internal/config"
	"github.com/0ya-sh0/GoChatLog/internal/hlog"
	"github.com/0ya-sh0/GoChatLog/internal/server"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:   "chatlog-server",
	Short: "Development broadcast server for the chatlog client",
	Args:  cobra.NoArgs,
	RunE:  runServer,

	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default ./chatlog.yaml or ~/.chatlog/chatlog.yaml)")
	config.ServerFlags(rootCmd.Flags())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal().Err(err).Msg("execute server command")
	}
}

func runServer(cmd *cobra.Command, args []string) error {
	v, err := config.New(configFile)
	if err != nil {
		return err
	}
	cfg, err := config.LoadServer(v, cmd.Flags())
	if err != nil {
		return err
	}
	log.Logger = hlog.NewConsole(os.Stderr, cfg.Verbose)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	broker := server.NewBroker(log.Logger.With().Str("component", "broker").Logger())
	broker.Start()

	httpSrv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           broker.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		broker.Stop()
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(sctx); err != nil {
			log.Error().Err(err).Msg("[server] shutdown error")
		}
	}()

	log.Info().Msgf("[server] listening on ws://%s/ws/", cfg.Addr)
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	log.Info().Msg("[server] shutdown complete")
	return nil
}
