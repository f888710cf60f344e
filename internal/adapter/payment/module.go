package payment

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/papermart/papermart/internal/config"
)

// Module exposes the payment provider client to the fx graph.
var Module = fx.Provide(newClient)

type clientParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newClient(p clientParams) Client {
	return NewStripeClient(
		p.Config.StripeAPIKey,
		p.Config.StripeWebhookSecret,
		p.Config.CheckoutSuccessURL,
		p.Config.CheckoutCancelURL,
		p.Logger,
	)
}
