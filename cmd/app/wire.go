//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/yanqian/portal-assistant/internal/bootstrap"
	"github.com/yanqian/portal-assistant/internal/domain/faq"
	"github.com/yanqian/portal-assistant/internal/infra/config"
	httpiface "github.com/yanqian/portal-assistant/internal/interface/http"
	"github.com/yanqian/portal-assistant/pkg/logger"
)

func initializeApp() (*bootstrap.App, error) {
	wire.Build(
		config.Load,
		logger.New,
		provideFAQConfig,
		provideCorpus,
		provideGenerator,
		provideFAQStore,
		provideMetricsProvider,
		provideAssistantMetrics,
		faq.NewService,
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil
}
