package notify

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/papermart/papermart/internal/config"
)

// Module exposes the notification dispatcher to the fx graph.
var Module = fx.Provide(newDispatcher)

type dispatcherParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newDispatcher(p dispatcherParams) (Dispatcher, error) {
	if p.Config.NotifierAddress == "" {
		return NewNopDispatcher(p.Logger), nil
	}
	return NewHTTPDispatcher(p.Config.NotifierAddress, p.Logger)
}
