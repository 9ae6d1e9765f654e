// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bartekus/specgen/cmd/specgen/internal/clierr"
	"github.com/bartekus/specgen/internal/api"
	"github.com/bartekus/specgen/internal/codegen"
	"github.com/bartekus/specgen/pkg/spec"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve extraction and generation over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			mode, err := spec.ParseHeaderMode(a.cfg.Extract.HeaderMode)
			if err != nil {
				return clierr.Wrap(clierr.ExitUsage, "invalid header mode", err)
			}

			var gen codegen.Generator
			if g, err := a.newGenerator(ctx, a.cfg.Codegen, a.logger); err != nil {
				a.logger.Warn("code generation disabled", zap.Error(err))
			} else {
				gen = g
			}

			srv := &http.Server{
				Addr: firstNonEmpty(addr, a.cfg.Server.Addr),
				Handler: api.NewServer(gen, api.Options{
					HeaderMode: mode,
					Logger:     a.logger,
				}),
				ReadHeaderTimeout: 10 * time.Second,
			}
			return serve(ctx, srv, a.logger)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	return cmd
}

// serve runs srv until ctx is cancelled, then shuts it down gracefully.
func serve(ctx context.Context, srv *http.Server, logger *zap.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
