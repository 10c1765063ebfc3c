package ports

import "context"

// EnvPreparer builds the environment an external command runs under. It is
// the hook for module-load or environment-activation steps that surround the
// pipeline's tools; the engine itself only merges the result with per-stage
// overrides.
//
//go:generate mockgen -source=env.go -destination=mocks/mock_env.go -package=mocks
type EnvPreparer interface {
	// Prepare returns environment variables as "KEY=VALUE" strings, with
	// the stage's overrides applied last.
	Prepare(ctx context.Context, stageEnv map[string]string) ([]string, error)
}
