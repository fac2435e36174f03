package odata

import (
	"github.com/gostratum/core/configx"
	"github.com/gostratum/core/logx"
	"go.uber.org/fx"
)

// FxConfigParams wires config loading via fx.
type FxConfigParams struct {
	fx.In

	Loader configx.Loader
}

// FxParams captures dependencies resolved via fx when constructing a client.
type FxParams struct {
	fx.In

	Config        Config
	Logger        logx.Logger `optional:"true"`
	CustomOptions []Option    `group:"odata_options"`
}

// NewFx constructs a Client from the bound Config. Options supplied through
// the odata_options group are applied last.
func NewFx(params FxParams) (Client, error) {
	var opts []Option

	if params.Logger != nil {
		opts = append(opts, WithLogger(params.Logger))
	}
	opts = append(opts, params.CustomOptions...)

	return NewWithConfig(params.Config, opts...)
}

// NewConfigFx binds the Config using configx.
func NewConfigFx(params FxConfigParams) (Config, error) {
	return NewConfig(params.Loader)
}
