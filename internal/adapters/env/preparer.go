// Package env implements the environment-preparation hook invoked before an
// external command is spawned. The default preparer passes through an
// allow-listed subset of the system environment; site-specific module-load
// schemes can replace it behind the same port.
package env

import (
	"context"
	"os"
	"sort"
	"strings"
)

// allowListedVars are the system environment variables a task inherits.
// Keeping the set small makes task behavior reproducible across hosts while
// leaving basic tools functional.
var allowListedVars = map[string]struct{}{
	"HOME":   {},
	"LANG":   {},
	"PATH":   {},
	"TERM":   {},
	"TMPDIR": {},
	"USER":   {},
}

// Preparer implements ports.EnvPreparer by filtering the system environment
// and applying per-stage overrides.
type Preparer struct{}

// NewPreparer creates a new Preparer.
func NewPreparer() *Preparer {
	return &Preparer{}
}

// Prepare returns the merged environment for one task. Stage overrides win
// over inherited variables. The result is sorted for determinism.
func (p *Preparer) Prepare(_ context.Context, stageEnv map[string]string) ([]string, error) {
	envMap := make(map[string]string)

	for _, entry := range os.Environ() {
		k, v, ok := strings.Cut(entry, "=")
		if !ok {
			continue
		}
		if _, allowed := allowListedVars[k]; allowed {
			envMap[k] = v
		}
	}

	for k, v := range stageEnv {
		envMap[k] = v
	}

	result := make([]string, 0, len(envMap))
	for k, v := range envMap {
		result = append(result, k+"="+v)
	}
	sort.Strings(result)

	return result, nil
}
