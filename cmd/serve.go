package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"cmv-site/config"
	"cmv-site/logger"
	"cmv-site/server"
)

func newServeCmd(envFile *string) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*envFile)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			if port != "" {
				cfg.Port = port
			}

			if err := logger.InitLogger(cfg.LogDir); err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			logger.SetLogLevel(cfg.Env)
			if err := logger.InitSentry(cfg.SentryDSN, cfg.Env); err != nil {
				logger.Warn.Printf("serve: sentry disabled: %v", err)
			}
			defer logger.Flush()

			if cfg.Env == "production" {
				gin.SetMode(gin.ReleaseMode)
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			srv, err := server.New(ctx, cfg)
			if err != nil {
				return err
			}
			return srv.Run(ctx)
		},
	}
	cmd.Flags().StringVarP(&port, "port", "p", "", "listen port (overrides PORT)")
	return cmd
}
