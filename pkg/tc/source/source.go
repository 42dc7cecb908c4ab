package source

import (
	"context"

	"github.com/komsit37/trailcalc/pkg/tc/types"
)

// Source loads scenario sets from a location such as a filepath.
type Source interface {
	Load(ctx context.Context, loc any) ([]types.ScenarioSet, error)
}

// Static serves scenario sets held in memory, e.g. built from CLI flags.
type Static []types.ScenarioSet

func (s Static) Load(ctx context.Context, _ any) ([]types.ScenarioSet, error) { //nolint:revive
	out := make([]types.ScenarioSet, len(s))
	copy(out, s)
	return out, nil
}
