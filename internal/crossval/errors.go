package crossval

import (
	"fmt"

	"github.com/cockroachdb/errors"

	"github.com/imishinist/crossval-cli/internal/platform"
)

// Validation error codes. Validation always happens before any remote
// resource is created, so these errors never leave orphans behind.
const (
	CodeInvalidRef             = 101
	CodeWrongKind              = 102
	CodeInvalidFoldCount       = 103
	CodeFoldCountTooSmall      = 104
	CodeObjectiveNotSelectable = 106
)

// ValidationError reports invalid input, keyed by a stable numeric code.
type ValidationError struct {
	Code    int
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed (code %d): %s", e.Code, e.Message)
}

func validationErrorf(code int, format string, args ...any) *ValidationError {
	return &ValidationError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Stage names the pipeline step a failure happened in.
type Stage string

const (
	StageValidating          Stage = "validating"
	StagePartitioningFolds   Stage = "partitioning-folds"
	StageBuildingPredictors  Stage = "building-predictors"
	StageBuildingEvaluations Stage = "building-evaluations"
	StageAggregating         Stage = "aggregating"
	StageDone                Stage = "done"
)

// PipelineError reports a failed remote creation or wait. ResourceID is
// the failing resource when the platform identified one; it is empty for
// transport-level failures.
type PipelineError struct {
	Stage      Stage
	ResourceID string
	cause      error
}

func (e *PipelineError) Error() string {
	if e.ResourceID != "" {
		return fmt.Sprintf("pipeline failed while %s (resource %s): %v", e.Stage, e.ResourceID, e.cause)
	}
	return fmt.Sprintf("pipeline failed while %s: %v", e.Stage, e.cause)
}

func (e *PipelineError) Unwrap() error {
	return e.cause
}

// pipelineError wraps err for a stage, lifting the failing resource id out
// of a platform.ResourceError when one is in the chain.
func pipelineError(stage Stage, err error) *PipelineError {
	pe := &PipelineError{Stage: stage, cause: err}
	var resErr *platform.ResourceError
	if errors.As(err, &resErr) {
		pe.ResourceID = resErr.ID
	}
	return pe
}
