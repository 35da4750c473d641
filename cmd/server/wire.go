//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"stockd/internal/app"
	"stockd/internal/config"
	"stockd/internal/http"
	"stockd/internal/http/controller"
	"stockd/internal/logging"
	"stockd/internal/metrics"
	"stockd/internal/persist"
	"stockd/internal/queue/rabbitmq"
	"stockd/internal/service/stock"
	"stockd/internal/sse"
	"stockd/internal/store"
)

func InitializeApp() (*app.App, error) {
	wire.Build(
		config.New,
		logging.New,
		metrics.New,
		store.NewStore,
		persist.NewFileStore,
		sse.NewHub,
		stock.NewService,
		controller.NewHandler,
		http.NewRouter,
		rabbitmq.NewConsumer,
		rabbitmq.NewPublisher,
		app.NewApp,
	)
	return &app.App{}, nil
}
