package crossval

import (
	"context"
	"fmt"

	"github.com/imishinist/crossval-cli/internal/models"
)

// buildEvaluations creates one evaluation per fold, scoring fold i's
// predictor against its held-out dataset. Requests go out one at a time
// in index order (the index fixes the evaluation's name and its fold),
// none is awaited individually; the call then blocks until all k are
// terminal.
func (e *Engine) buildEvaluations(ctx context.Context, kind models.Kind, predictors []string, pairs []models.FoldPair, datasetName string, rawOptions map[string]any) ([]string, error) {
	options := FilterOptions(rawOptions, EvaluationOptions)

	ids := make([]string, 0, len(pairs))
	for i, pair := range pairs {
		args := map[string]any{
			string(kind): predictors[i],
			"dataset":    pair.HeldOut.Dataset,
			"name":       fmt.Sprintf("%d-fold Evaluation %s", i+1, datasetName),
		}
		for key, value := range options {
			args[key] = value
		}

		res, err := e.api.Create(ctx, models.KindEvaluation, args)
		if err != nil {
			e.track(ids...)
			return nil, pipelineError(StageBuildingEvaluations, err)
		}
		ids = append(ids, res.ID)
	}
	e.track(ids...)

	if _, err := e.api.WaitAll(ctx, ids); err != nil {
		return nil, pipelineError(StageBuildingEvaluations, err)
	}
	return ids, nil
}

// aggregate submits the k evaluation ids to the platform's built-in
// averaging and blocks until the combined evaluation is terminal. Its id
// is the run's sole result.
func (e *Engine) aggregate(ctx context.Context, evaluationIDs []string) (string, error) {
	res, err := e.api.CreateAndWait(ctx, models.KindEvaluation, map[string]any{
		"evaluations": evaluationIDs,
	})
	if err != nil {
		return "", pipelineError(StageAggregating, err)
	}
	e.track(res.ID)
	return res.ID, nil
}
