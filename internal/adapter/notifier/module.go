package notifier

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/etproforma/commerce/internal/config"
)

// Module exposes the notification client to the fx graph.
var Module = fx.Provide(newClient)

type clientParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newClient(p clientParams) (Client, error) {
	return NewHTTPClient(p.Config.NotifierAddress, p.Logger)
}
