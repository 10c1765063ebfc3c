// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "github.com/EricSDavis/MicroC/internal/adapters/artifact"
	_ "github.com/EricSDavis/MicroC/internal/adapters/config"
	_ "github.com/EricSDavis/MicroC/internal/adapters/env"
	_ "github.com/EricSDavis/MicroC/internal/adapters/logger"
	_ "github.com/EricSDavis/MicroC/internal/adapters/samples"
	_ "github.com/EricSDavis/MicroC/internal/adapters/shell"
	_ "github.com/EricSDavis/MicroC/internal/adapters/telemetry"
	// Register app and engine nodes.
	_ "github.com/EricSDavis/MicroC/internal/app"
	_ "github.com/EricSDavis/MicroC/internal/engine/scheduler"
)
