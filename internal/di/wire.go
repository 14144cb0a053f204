//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"github.com/lcolonia21/BizGuide-Final-System/internal/app"
)

// InitializeApp wires the BizGuide API from configuration found in the
// environment, after loading envFile when it exists.
func InitializeApp(envFile EnvFile) (*app.App, error) {
	panic(wire.Build(
		ConfigSet,
		ObservabilitySet,
		RuntimeInfraSet,
		RepositorySet,
		SecuritySet,
		ServiceSet,
		HTTPSet,
		AppSet,
	))
}
