//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"components.dev/calc/internal/application/services"
	"components.dev/calc/internal/infrastructure/config"
	"components.dev/calc/internal/interfaces/api"
)

// InitializeComponents builds the object graph for one configuration
func InitializeComponents(cfg *config.Config) (*Components, error) {
	wire.Build(
		provideLogger,

		// Linker
		services.NewLinkerConfig,
		services.NewLinker,
		wire.Bind(new(services.Evaluator), new(*services.Linker)),
		wire.Bind(new(api.ProviderLister), new(*services.Linker)),

		// Application services
		services.NewEvaluationService,

		// HTTP host
		api.NewServer,

		wire.Struct(new(Components), "*"),
	)

	return nil, nil
}
