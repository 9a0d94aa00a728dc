package gateway

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/etproforma/commerce/internal/config"
)

// Module exposes the payment gateway client to the fx graph.
var Module = fx.Provide(newClient)

type clientParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newClient(p clientParams) (Client, error) {
	opts := Options{
		Currency:    p.Config.Currency,
		CallbackURL: p.Config.CallbackURL,
		ReturnURL:   p.Config.ReturnURL,
	}
	return NewHTTPClient(p.Config.GatewayAddress, p.Config.GatewaySecret, opts, p.Logger)
}
