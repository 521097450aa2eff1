//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/daslab/treeshade/internal/bootstrap"
	"github.com/daslab/treeshade/internal/domain/canopy"
	"github.com/daslab/treeshade/internal/domain/scene"
	"github.com/daslab/treeshade/internal/domain/shadow"
	"github.com/daslab/treeshade/internal/domain/suntable"
	"github.com/daslab/treeshade/internal/infra/config"
	"github.com/daslab/treeshade/internal/infra/ephemeris"
	httpiface "github.com/daslab/treeshade/internal/interface/http"
	"github.com/daslab/treeshade/pkg/logger"
)

func initializeApp() (*bootstrap.App, func(), error) {
	wire.Build(
		config.Load,
		logger.New,
		provideSunTable,
		provideSolarConfig,
		providePointCloudStore,
		ephemeris.NewMeeus,
		wire.Bind(new(suntable.Locator), new(*ephemeris.Meeus)),
		shadow.NewService,
		canopy.NewService,
		scene.NewService,
		suntable.NewService,
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil, nil
}
