//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"github.com/familiarcat/candid-graph-engine/pkg/config"
)

// InitializeEngine builds a fully wired engine container.
func InitializeEngine(cfg config.Config) (*Container, error) {
	wire.Build(SuperSet)
	return nil, nil
}
