package crossval

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/imishinist/crossval-cli/internal/models"
	"github.com/imishinist/crossval-cli/internal/platform"
)

// API is the slice of the platform client the engine consumes.
type API interface {
	Create(ctx context.Context, kind models.Kind, args map[string]any) (*platform.Resource, error)
	CreateAndWait(ctx context.Context, kind models.Kind, args map[string]any) (*platform.Resource, error)
	WaitAll(ctx context.Context, ids []string) ([]*platform.Resource, error)
	GetDataset(ctx context.Context, id string) (*models.Dataset, error)
	DeleteAll(ctx context.Context, ids []string) error
}

// Params are the inputs of one cross-validation run.
type Params struct {
	// Dataset is the source dataset id ("dataset/<id>").
	Dataset string

	// Folds is k, the number of partitions. Must be at least 2.
	Folds int

	// ObjectiveField is the id of the field to predict. Empty selects
	// the dataset's declared default objective.
	ObjectiveField string

	// ModelOptions configure the per-fold predictors. number_of_models
	// greater than 1 switches the run from models to ensembles; keys the
	// chosen kind does not recognize are dropped.
	ModelOptions map[string]any

	// EvaluationOptions configure the per-fold evaluations, filtered the
	// same way.
	EvaluationOptions map[string]any
}

// Options configure engine behavior beyond the per-run Params.
type Options struct {
	Logger zerolog.Logger

	// WaitTimeout bounds the whole run. Zero means unbounded waits.
	WaitTimeout time.Duration

	// CleanupOnFailure deletes, best effort, every resource the run
	// created when a stage fails. Off preserves them for inspection.
	CleanupOnFailure bool
}

// Engine drives one k-fold cross-validation run through its stages:
// validating, partitioning folds, building predictors, building
// evaluations, aggregating. The run is strictly linear; each stage fans
// out its remote creations and joins on all of them before the next
// stage starts.
type Engine struct {
	api     API
	logger  zerolog.Logger
	options Options

	// created accumulates the ids of every resource this run created, in
	// creation order. Only touched between fan-out joins, never
	// concurrently.
	created []string
}

func New(api API, options Options) *Engine {
	return &Engine{
		api:     api,
		logger:  options.Logger,
		options: options,
	}
}

// Run executes the full pipeline and returns the id of the aggregated
// evaluation. Invalid input fails with a ValidationError before any
// resource is created; a remote failure fails with a PipelineError
// naming the stage and, when known, the failing resource.
func (e *Engine) Run(ctx context.Context, params Params) (string, error) {
	if e.options.WaitTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.options.WaitTimeout)
		defer cancel()
	}

	aggregateID, err := e.run(ctx, params)
	if err != nil {
		e.logger.Error().Err(err).Msg("cross-validation failed")
		if e.options.CleanupOnFailure && len(e.created) > 0 {
			e.cleanup()
		}
		return "", err
	}
	return aggregateID, nil
}

func (e *Engine) run(ctx context.Context, params Params) (string, error) {
	e.setStage(StageValidating)
	datasetID, err := ValidateResourceRef(params.Dataset, models.KindDataset)
	if err != nil {
		return "", err
	}
	if err := validateFoldCount(params.Folds); err != nil {
		return "", err
	}

	dataset, err := e.api.GetDataset(ctx, datasetID)
	if err != nil {
		return "", pipelineError(StageValidating, err)
	}
	objectiveName, err := ValidateObjectiveField(params.ObjectiveField, dataset)
	if err != nil {
		return "", err
	}

	e.setStage(StagePartitioningFolds)
	folds, err := e.createFolds(ctx, datasetID, params.Folds)
	if err != nil {
		return "", err
	}
	pairs := PairFolds(folds)

	e.setStage(StageBuildingPredictors)
	predictors, kind, err := e.buildPredictors(ctx, pairs, objectiveName, params.ModelOptions)
	if err != nil {
		return "", err
	}

	e.setStage(StageBuildingEvaluations)
	evaluations, err := e.buildEvaluations(ctx, kind, predictors, pairs, dataset.Name, params.EvaluationOptions)
	if err != nil {
		return "", err
	}

	e.setStage(StageAggregating)
	aggregateID, err := e.aggregate(ctx, evaluations)
	if err != nil {
		return "", err
	}

	e.setStage(StageDone)
	return aggregateID, nil
}

func (e *Engine) setStage(stage Stage) {
	e.logger.Info().Str("stage", string(stage)).Msg("cross-validation stage")
}

// track records created resource ids for failure cleanup. Empty slots
// from a partially failed fan-out are skipped.
func (e *Engine) track(ids ...string) {
	for _, id := range ids {
		if id != "" {
			e.created = append(e.created, id)
		}
	}
}

// cleanup best-effort deletes the run's resources, newest first. It runs
// on its own context: the run's context may already be done.
func (e *Engine) cleanup() {
	e.logger.Info().Int("resources", len(e.created)).Msg("cleaning up created resources")

	ids := make([]string, 0, len(e.created))
	for i := len(e.created) - 1; i >= 0; i-- {
		ids = append(ids, e.created[i])
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if err := e.api.DeleteAll(ctx, ids); err != nil {
		e.logger.Warn().Err(err).Msg("cleanup left resources behind")
	}
}
