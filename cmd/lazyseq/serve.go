package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kbukum/lazyseq/logger"
	"github.com/kbukum/lazyseq/server"
)

func newServeCommand(root *rootFlags) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the evaluation playground over HTTP",
		Example: `  lazyseq serve --port 9090
  curl -s localhost:9090/v1/evaluate -d '{"mode":"both"}'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := loadConfig(root)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
				if err := cfg.Server.Validate(); err != nil {
					return err
				}
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			tel, err := setupTelemetry(ctx, cfg.Observability)
			if err != nil {
				return err
			}
			defer tel.shutdown(context.WithoutCancel(ctx), log)

			srv := server.New(cfg.Server, logger.Get(componentServer), tel.metrics)
			if err := srv.Start(ctx); err != nil {
				return err
			}

			<-ctx.Done()
			log.Info("received shutdown signal", logger.Fields("addr", srv.Addr()))
			return srv.Stop(context.WithoutCancel(ctx))
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "listen port (overrides server.port)")
	return cmd
}
