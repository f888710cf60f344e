package di

import (
	"go.uber.org/fx"

	"github.com/papermart/papermart/internal/adapter/notify"
	"github.com/papermart/papermart/internal/adapter/payment"
	"github.com/papermart/papermart/internal/app"
	"github.com/papermart/papermart/internal/config"
	"github.com/papermart/papermart/internal/logger"
	"github.com/papermart/papermart/internal/pkg/auth"
	"github.com/papermart/papermart/internal/server/http/handlers"
	"github.com/papermart/papermart/internal/server/http/router"
	"github.com/papermart/papermart/internal/storage/postgres"
	"github.com/papermart/papermart/internal/usecase"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		auth.Module,
		postgres.Module,
		payment.Module,
		notify.Module,
		usecase.Module,
		fx.Provide(
			func(client payment.Client) usecase.PaymentProvider { return client },
			func(dispatcher notify.Dispatcher) usecase.Notifier { return dispatcher },
			func(facade *app.MarketFacade) handlers.MarketFacade { return facade },
			func(client payment.Client) handlers.WebhookVerifier { return client },
		),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
