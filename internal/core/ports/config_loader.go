package ports

import "github.com/EricSDavis/MicroC/internal/core/domain"

// ConfigLoader loads the pipeline configuration.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load locates the configuration file starting at cwd and returns the
	// validated, immutable configuration.
	Load(cwd string) (*domain.Config, error)
}
