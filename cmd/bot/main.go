package main

import (
	"context"
	"log"

	"go.uber.org/fx"

	"ig_bot/internal/modules/config"
	"ig_bot/internal/modules/health"
	"ig_bot/internal/modules/ig_client"
	"ig_bot/internal/modules/monitor"
	"ig_bot/internal/modules/webhook"
	"ig_bot/internal/notify"
	"ig_bot/internal/runner"
	"ig_bot/pkg/logger"
	"ig_bot/pkg/tracing"
)

func main() {
	if err := logger.Init(); err != nil {
		log.Fatal(err)
	}

	app := fx.New(
		fx.Provide(
			// Notifier: если TELEGRAM_* нет — используем stdout
			func(cfg *config.Config) notify.Notifier {
				if cfg.Telegram.Token != "" && cfg.Telegram.ChatID != 0 {
					if tg, err := notify.NewTelegram(cfg.Telegram.Token, cfg.Telegram.ChatID); err == nil {
						return tg
					}
					logger.Warn("telegram недоступен, уведомления пойдут в stdout")
				}
				return notify.NewStdout()
			},
		),
		config.Module(),
		ig_client.Module(),
		runner.Module(),
		monitor.Module(),
		webhook.Module(),
		health.Module(),
		fx.Invoke(
			func(lc fx.Lifecycle, cfg *config.Config) {
				if cfg.Jaeger.Host == "" {
					return
				}
				_, closer, err := tracing.InitTracer(tracing.Config{
					Host: cfg.Jaeger.Host,
					Port: cfg.Jaeger.Port,
				})
				if err != nil {
					logger.Warn("jaeger init failed: %v", err)
					return
				}
				lc.Append(fx.Hook{
					OnStop: func(context.Context) error { closer(); return nil },
				})
			},
			func(lc fx.Lifecycle, n notify.Notifier) {
				tg, ok := n.(*notify.Telegram)
				if !ok {
					return
				}
				// как и у монитора: хук владеет контекстом long-polling
				runCtx, cancel := context.WithCancel(context.Background())
				lc.Append(fx.Hook{
					OnStart: func(context.Context) error {
						return tg.Start(runCtx)
					},
					OnStop: func(ctx context.Context) error {
						cancel()
						tg.Stop()
						select {
						case <-tg.Done():
							return nil
						case <-ctx.Done():
							return ctx.Err()
						}
					},
				})
			},
		),
	)
	app.Run()
}
