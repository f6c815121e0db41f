//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/jedalosa/energymatch/internal/bootstrap"
	"github.com/jedalosa/energymatch/internal/domain/advisor"
	"github.com/jedalosa/energymatch/internal/domain/billscan"
	"github.com/jedalosa/energymatch/internal/domain/catalog"
	"github.com/jedalosa/energymatch/internal/domain/coach"
	"github.com/jedalosa/energymatch/internal/domain/roleauth"
	"github.com/jedalosa/energymatch/internal/infra/config"
	"github.com/jedalosa/energymatch/internal/infra/llm/gemini"
	httpiface "github.com/jedalosa/energymatch/internal/interface/http"
	"github.com/jedalosa/energymatch/pkg/logger"
)

func initializeApp() (*bootstrap.App, error) {
	wire.Build(
		config.Load,
		logger.New,
		provideGeminiClient,
		provideAdvisorConfig,
		provideBillConfig,
		provideCoachConfig,
		provideRoleAuthConfig,
		provideProfileStore,
		provideLeadRepository,
		provideNotifier,
		provideGeolocator,
		provideSessionManager,
		provideHandler,
		advisor.NewService,
		billscan.NewService,
		coach.NewService,
		catalog.NewService,
		roleauth.NewService,
		wire.Bind(new(advisor.ChatClient), new(*gemini.Client)),
		wire.Bind(new(billscan.ChatClient), new(*gemini.Client)),
		wire.Bind(new(coach.ChatClient), new(*gemini.Client)),
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil
}
