package monitor

import (
	"context"
	"time"

	"go.uber.org/fx"

	"ig_bot/internal/modules/config"
	healthsvc "ig_bot/internal/modules/health/service"
	igsvc "ig_bot/internal/modules/ig_client/service"
	"ig_bot/internal/modules/monitor/service"
	"ig_bot/internal/notify"
)

// Module поднимает монитор позиций как управляемую фоновую задачу:
// старт через fx-хук, стоп — отмена контекста + ожидание конца цикла.
func Module() fx.Option {
	return fx.Module("monitor",
		fx.Provide(
			func(cfg *config.Config, ig *igsvc.Client, n notify.Notifier, st *healthsvc.State) *service.Monitor {
				return service.NewMonitor(ig, n, st, cfg.PollInterval)
			},
		),
		fx.Invoke(func(lc fx.Lifecycle, m *service.Monitor, n notify.Notifier) {
			runCtx, cancel := context.WithCancel(context.Background())

			lc.Append(fx.Hook{
				OnStart: func(_ context.Context) error {
					// /positions в Telegram читает прямо из монитора
					if tg, ok := n.(*notify.Telegram); ok {
						tg.SetPositionSource(m)
					}
					go m.Run(runCtx)
					return nil
				},
				OnStop: func(ctx context.Context) error {
					cancel()
					select {
					case <-m.Done():
						return nil
					case <-ctx.Done():
						return ctx.Err()
					case <-time.After(30 * time.Second):
						return nil
					}
				},
			})
		}),
	)
}
