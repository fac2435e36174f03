package odatafx

import (
	"github.com/gostratum/odata"
	"go.uber.org/fx"
)

// Module provides odata.Config (bound through configx) and odata.Client.
func Module() fx.Option {
	return fx.Module("odata",
		fx.Provide(
			odata.NewConfigFx,
			odata.NewFx,
		),
	)
}
