/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"errors"
	"net/http"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/cobra"

	"github.com/joecammo/Daemon/present"
	"github.com/joecammo/Daemon/render"
)

var mirror bool

// playCmd represents the play command
var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play in a desktop window",
	Long: `Opens a window with the opening hand dealt. Click a card to pop it, drag it
onto a unit to play it. E ends the turn, L switches between fan and linear
layouts and F3 shows timing.

With --mirror every frame is also broadcast to websocket viewers on the
configured server address.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, cfg, logger, err := newSession(cmd)
		if err != nil {
			return err
		}
		g := render.New(s, cfg.Window.Width, cfg.Window.Height, cfg.Window.Scale, logger)

		if mirror {
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			hub := present.NewHub(logger)
			go hub.Run(ctx)
			g.Mirror(hub)
			g.Remote(hub.Inbox)
			srv := &http.Server{Addr: cfg.Server.Addr, Handler: hub}
			go func() {
				logger.Info("mirroring frames", "addr", cfg.Server.Addr)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("mirror stopped", "err", err)
				}
			}()
			defer srv.Close()
		}

		ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
		ebiten.SetWindowTitle("Daemon")
		return ebiten.RunGame(g)
	},
}

func init() {
	playCmd.Flags().BoolVar(&mirror, "mirror", false, "broadcast frames to websocket viewers")
	rootCmd.AddCommand(playCmd)
}
