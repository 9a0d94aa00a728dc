package di

import (
	"go.uber.org/fx"

	"github.com/etproforma/commerce/internal/adapter/gateway"
	"github.com/etproforma/commerce/internal/adapter/notifier"
	"github.com/etproforma/commerce/internal/app"
	"github.com/etproforma/commerce/internal/config"
	"github.com/etproforma/commerce/internal/logger"
	"github.com/etproforma/commerce/internal/pkg/identity"
	"github.com/etproforma/commerce/internal/server/http/handlers"
	"github.com/etproforma/commerce/internal/server/http/router"
	"github.com/etproforma/commerce/internal/storage/postgres"
	"github.com/etproforma/commerce/internal/usecase"
	"github.com/etproforma/commerce/internal/worker"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		identity.Module,
		postgres.Module,
		gateway.Module,
		notifier.Module,
		usecase.Module,
		fx.Provide(func(client gateway.Client) usecase.PaymentGateway { return client }),
		fx.Provide(func(client notifier.Client) worker.Notifier { return client }),
		fx.Provide(func(dispatcher *worker.Dispatcher) app.EventPublisher { return dispatcher }),
		fx.Provide(func(facade *app.CommerceFacade) handlers.CommerceFacade { return facade }),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
