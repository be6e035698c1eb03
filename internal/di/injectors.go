//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"
	"travelogue/internal"
	"travelogue/internal/controllers"
	"travelogue/internal/dataset"
	"travelogue/internal/providers"
	"travelogue/internal/services"
	"travelogue/internal/structures"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewMetricsProvider,
		providers.NewInstrumentedCacheProvider,
		providers.NewHistoryProvider,

		services.NewLogService,
		dataset.NewZstdCompressor,
		dataset.NewFileManager,
		dataset.NewScheduler,
		controllers.NewApiController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil
}
