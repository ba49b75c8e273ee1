package crossval

import (
	"context"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/imishinist/crossval-cli/internal/models"
)

// createFolds derives k fold datasets from the source dataset: fold i
// takes every k-th row starting at offset i and tags each row with a
// k_fold field holding "i". The k create requests are issued in parallel
// and the call blocks until all folds are terminal. Any single failure
// aborts the call; already-created folds stay on the platform.
func (e *Engine) createFolds(ctx context.Context, datasetID string, k int) ([]models.Fold, error) {
	ids := make([]string, k)

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < k; i++ {
		i := i
		g.Go(func() error {
			res, err := e.api.Create(gctx, models.KindDataset, map[string]any{
				"origin_dataset": datasetID,
				"row_offset":     i,
				"row_step":       k,
				"new_fields": []map[string]any{
					{"name": models.FoldFieldName, "value": strconv.Itoa(i)},
				},
			})
			if err != nil {
				return err
			}
			ids[i] = res.ID
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		e.track(ids...)
		return nil, pipelineError(StagePartitioningFolds, err)
	}
	e.track(ids...)

	if _, err := e.api.WaitAll(ctx, ids); err != nil {
		return nil, pipelineError(StagePartitioningFolds, err)
	}

	folds := make([]models.Fold, k)
	for i, id := range ids {
		folds[i] = models.Fold{Index: i, Dataset: id}
	}
	return folds, nil
}

// PairFolds derives, for each fold, the pair of the held-out fold and
// the datasets of the other k-1 folds in their original order. Pure:
// no remote calls.
func PairFolds(folds []models.Fold) []models.FoldPair {
	pairs := make([]models.FoldPair, len(folds))
	for i, heldOut := range folds {
		complement := make([]string, 0, len(folds)-1)
		for j, fold := range folds {
			if j == i {
				continue
			}
			complement = append(complement, fold.Dataset)
		}
		pairs[i] = models.FoldPair{HeldOut: heldOut, Complement: complement}
	}
	return pairs
}
