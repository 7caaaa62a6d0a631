package cmd

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/malusev998/money/server"
)

const shutdownTimeout = 30 * time.Second

func serve(config *Config) *cobra.Command {
	var addr string

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			deps := config.deps

			if addr == "" {
				addr = deps.Addr
			}

			srv := server.NewServer(server.Config{
				Converter: deps.Converter,
				Registry:  deps.Registry,
				Logger:    deps.Logger,
				Metrics:   deps.Metrics,
			})

			errs := make(chan error, 1)

			go func() {
				deps.Logger.Info("Starting server", zap.String("addr", addr))
				errs <- srv.Run(addr)
			}()

			select {
			case err := <-errs:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}

				return err
			case <-config.Ctx.Done():
			}

			deps.Logger.Info("Shutting down server...")

			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()

			return srv.Shutdown(ctx)
		},
	}

	serveCmd.Flags().StringVar(&addr, "addr", "", "Address to listen on, overrides server.addr")

	return serveCmd
}
