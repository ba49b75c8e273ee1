package crossval

import "github.com/imishinist/crossval-cli/internal/models"

// Whitelist is the set of option keys a resource kind recognizes.
type Whitelist map[string]struct{}

func newWhitelist(keys ...string) Whitelist {
	w := make(Whitelist, len(keys))
	for _, key := range keys {
		w[key] = struct{}{}
	}
	return w
}

func (w Whitelist) union(other Whitelist) Whitelist {
	merged := make(Whitelist, len(w)+len(other))
	for key := range w {
		merged[key] = struct{}{}
	}
	for key := range other {
		merged[key] = struct{}{}
	}
	return merged
}

// Option keys recognized per resource kind. These are fixed lookup
// tables: ensembles accept every model option plus the sampling and
// ensemble-specific keys.
var (
	ModelOptions = newWhitelist(
		"balance_objective",
		"missing_splits",
		"pruning",
		"weight_field",
		"objective_weights",
		"node_threshold",
	)

	EnsembleOptions = ModelOptions.union(newWhitelist(
		"sample_rate",
		"replacement",
		"randomize",
		"number_of_models",
		"seed",
	))

	EvaluationOptions = newWhitelist(
		"sample_rate",
		"out_of_bag",
		"range",
		"replacement",
		"ordering",
		"seed",
		"missing_strategy",
		"combiner",
	)
)

// FilterOptions returns the subset of raw whose keys the whitelist
// recognizes. Unrecognized keys are dropped silently; absent keys are
// never synthesized.
func FilterOptions(raw map[string]any, allowed Whitelist) map[string]any {
	filtered := make(map[string]any)
	for key, value := range raw {
		if _, ok := allowed[key]; ok {
			filtered[key] = value
		}
	}
	return filtered
}

// PredictorKindOf decides which resource kind the model options ask for:
// an ensemble iff number_of_models is present and greater than 1,
// otherwise a single model. The decision is made once per run.
func PredictorKindOf(modelOptions map[string]any) models.Kind {
	if numberOfModels(modelOptions) > 1 {
		return models.KindEnsemble
	}
	return models.KindModel
}

// numberOfModels reads the number_of_models option, tolerating the
// numeric types JSON and YAML decoders produce. Absent or unreadable
// values default to 1.
func numberOfModels(options map[string]any) int {
	value, ok := options["number_of_models"]
	if !ok {
		return 1
	}
	switch n := value.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	default:
		return 1
	}
}

func whitelistFor(kind models.Kind) Whitelist {
	if kind == models.KindEnsemble {
		return EnsembleOptions
	}
	return ModelOptions
}
