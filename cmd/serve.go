/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/joecammo/Daemon/present"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run a headless session for websocket viewers",
	Long: `Runs the session without a window. Viewers connect with a websocket to the
configured address, receive a frame every tick and send pointer and end_turn
messages back.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, cfg, logger, err := newSession(cmd)
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		hub := present.NewHub(logger)
		go hub.Run(ctx)

		mux := http.NewServeMux()
		mux.Handle("/ws", hub)
		srv := &http.Server{Addr: cfg.Server.Addr, Handler: mux}
		go func() {
			logger.Info("serving", "addr", cfg.Server.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("server stopped", "err", err)
				stop()
			}
		}()

		dt := 1 / cfg.Server.TickRate
		ticker := time.NewTicker(time.Duration(dt * float64(time.Second)))
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				logger.Info("shutting down")
				shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				return srv.Shutdown(shutdown)
			case c := <-hub.Inbox:
				if err := s.Command(c); err != nil {
					logger.Warn("command", "client", c.Client, "err", err)
				}
			case <-ticker.C:
				s.Update(dt)
				hub.Present(s.Frame())
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
