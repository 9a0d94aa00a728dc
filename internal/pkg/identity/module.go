package identity

import (
	"go.uber.org/fx"

	"github.com/etproforma/commerce/internal/config"
)

// Module provides the actor token strategy via fx.
var Module = fx.Provide(newStrategy)

type strategyParams struct {
	fx.In

	Config *config.Config
}

func newStrategy(p strategyParams) Strategy {
	return NewHMACStrategy(p.Config.TokenSecret, Options{})
}
