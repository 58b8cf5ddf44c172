package webhook

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/fx"

	"ig_bot/internal/modules/config"
	igsvc "ig_bot/internal/modules/ig_client/service"
	monsvc "ig_bot/internal/modules/monitor/service"
	"ig_bot/internal/modules/webhook/service"
	"ig_bot/internal/runner"
	"ig_bot/pkg/logger"
)

// RunHTTP — публичный HTTP-вход: /webhook и вспомогательные ручки.
func RunHTTP(lc fx.Lifecycle, cfg *config.Config, h *service.Handler) {
	addr := fmt.Sprintf("%s:%d", cfg.Service.Host, cfg.Service.PublicPort)
	srv := &http.Server{
		Addr:              addr,
		Handler:           h.Mux(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", addr)
			if err != nil {
				return err
			}
			go func() { _ = srv.Serve(ln) }()
			logger.Info("webhook: listening on %s", addr)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}

func Module() fx.Option {
	return fx.Module("webhook",
		fx.Provide(
			func(r *runner.Runner) service.SignalHandler { return r },
			func(c *igsvc.Client) service.MarketInfo { return c },
			func(m *monsvc.Monitor) service.Positions { return m },
			service.NewHandler,
		),
		fx.Invoke(RunHTTP),
	)
}
