package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/ZaguanLabs/pagetl/page"
	"github.com/ZaguanLabs/pagetl/server"
	"github.com/ZaguanLabs/pagetl/trigger"
	"github.com/spf13/cobra"
)

func newServeCmd(g *globalFlags) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve [file]",
		Short: "Serve a click-to-translate page",
		Long: `Serve an HTML page whose translate button can be clicked over HTTP.

Routes:
  GET  /             current page
  POST /api/click    {"element": id, "language": code}
  GET  /api/status   status text, busy flag and selected language
  GET  /api/events   websocket stream of page changes
  GET  /healthz      liveness`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}
			if len(args) == 1 {
				cfg.Page.File = args[0]
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			if cfg.Page.File == "" {
				return fmt.Errorf("page file required (argument or page.file)")
			}
			logger := cfg.Log.NewLogger(cmd.ErrOrStderr())

			input, _, err := readInput(cfg.Page.File, cmd.InOrStdin())
			if err != nil {
				return err
			}
			doc, err := page.Parse(input)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			tr, closer, err := newTranslator(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer closer.Close()

			tc := triggerConfig(cfg)
			h := trigger.NewHandler(doc, tr, tc,
				trigger.WithLogger(logger),
				trigger.WithContext(context.WithoutCancel(ctx)),
			)
			defer h.Close()
			if err := h.Attach(); err != nil {
				return fmt.Errorf("attaching to #%s: %w", tc.TriggerID, err)
			}

			logger.Info("starting pagetl", "page", cfg.Page.File, "provider", cfg.Provider, "cache", cfg.Cache.Type)
			return server.New(doc, h, tc, server.WithLogger(logger)).Run(ctx, cfg.Server.Addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config: :8080)")
	return cmd
}
