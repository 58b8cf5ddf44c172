package ig_client

import (
	"go.uber.org/fx"

	"ig_bot/internal/modules/ig_client/service"
)

func Module() fx.Option {
	return fx.Module("ig_client",
		fx.Provide(
			service.NewClient,
		),
	)
}
