package chiral

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/H1W0XXX/chiralcarbon/molecule"
)

// AnalyzeAll runs FindChiralCarbons over independent molecules with at most
// workers goroutines (GOMAXPROCS when workers <= 0). result[i] belongs to
// mols[i]. It stops early and returns ctx.Err() if ctx is cancelled.
func AnalyzeAll(ctx context.Context, mols []*molecule.Molecule, workers int) ([][]int, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	result := make([][]int, len(mols))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, m := range mols {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			result[i] = FindChiralCarbons(m)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
