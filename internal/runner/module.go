package runner

import (
	"go.uber.org/fx"

	igsvc "ig_bot/internal/modules/ig_client/service"
	monsvc "ig_bot/internal/modules/monitor/service"
)

func Module() fx.Option {
	return fx.Module("runner",
		fx.Provide(
			func(c *igsvc.Client) Broker { return c },
			func(m *monsvc.Monitor) Registry { return m },
			New,
		),
	)
}
