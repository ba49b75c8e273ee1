package crossval

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/imishinist/crossval-cli/internal/models"
)

// buildPredictors creates one predictor per fold pair, trained on the
// pair's complement. The resource kind (model or ensemble) is decided
// once from the raw options and the options are filtered through the
// matching whitelist. All k create requests fan out in parallel; the
// call then blocks until every predictor is terminal.
func (e *Engine) buildPredictors(ctx context.Context, pairs []models.FoldPair, objectiveName string, rawOptions map[string]any) ([]string, models.Kind, error) {
	kind := PredictorKindOf(rawOptions)
	options := FilterOptions(rawOptions, whitelistFor(kind))

	e.logger.Info().
		Str("kind", string(kind)).
		Int("folds", len(pairs)).
		Msg("building predictors")

	ids := make([]string, len(pairs))

	g, gctx := errgroup.WithContext(ctx)
	for i := range pairs {
		i := i
		g.Go(func() error {
			args := map[string]any{
				"datasets":        pairs[i].Complement,
				"objective_field": objectiveName,
			}
			for key, value := range options {
				args[key] = value
			}

			res, err := e.api.Create(gctx, kind, args)
			if err != nil {
				return err
			}
			ids[i] = res.ID
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		e.track(ids...)
		return nil, kind, pipelineError(StageBuildingPredictors, err)
	}
	e.track(ids...)

	if _, err := e.api.WaitAll(ctx, ids); err != nil {
		return nil, kind, pipelineError(StageBuildingPredictors, err)
	}
	return ids, kind, nil
}
