package cmd

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/chemmaster/chemmaster/internal/api"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the JSON HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, envOptions{console: true, ai: true})
		if err != nil {
			return err
		}
		defer e.Close()

		addr, _ := cmd.Flags().GetString("addr")
		if addr == "" {
			addr = e.cfg.Server.Addr
		}

		srv := api.New(api.Options{
			Gateway:     e.gateway,
			Board:       e.board(),
			Events:      e.store.EventRepo(),
			Logger:      e.logger,
			Registry:    e.registry,
			CORSOrigins: e.cfg.Server.CORSOrigins,
			SessionTTL:  e.cfg.Server.SessionTTL,
		})

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() error { return srv.Run(ctx, addr) })
		g.Go(func() error { return srv.RunJanitor(ctx, time.Minute) })

		err = g.Wait()
		e.logger.Info("server stopped", zap.Error(err))
		return err
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (default from server.addr)")
}
