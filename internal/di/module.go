package di

import (
	"go.uber.org/fx"

	"github.com/polkiloo/stampcard/internal/adapter/feedback"
	"github.com/polkiloo/stampcard/internal/app"
	"github.com/polkiloo/stampcard/internal/config"
	"github.com/polkiloo/stampcard/internal/logger"
	"github.com/polkiloo/stampcard/internal/pkg/auth"
	"github.com/polkiloo/stampcard/internal/server/http/handlers"
	"github.com/polkiloo/stampcard/internal/server/http/router"
	"github.com/polkiloo/stampcard/internal/session"
	"github.com/polkiloo/stampcard/internal/storage/postgres"
	"github.com/polkiloo/stampcard/internal/usecase"
	"github.com/polkiloo/stampcard/internal/worker"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		auth.Module,
		postgres.Module,
		feedback.Module,
		session.Module,
		usecase.Module,
		fx.Provide(func(d *worker.FeedbackDispatcher) app.FeedbackPublisher { return d }),
		fx.Provide(func(f *app.StampFacade) handlers.StampFacade { return f }),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
