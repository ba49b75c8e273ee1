package crossval

import (
	"sort"

	"github.com/imishinist/crossval-cli/internal/models"
)

// ValidateResourceRef checks that ref is a well-formed resource id of the
// expected kind and returns it as a string. A non-string or malformed
// value fails with code 101, a kind mismatch with code 102.
func ValidateResourceRef(ref any, expected models.Kind) (string, error) {
	id, ok := ref.(string)
	if !ok || !models.IsResourceID(id) {
		return "", validationErrorf(CodeInvalidRef, "not a resource id: %v", ref)
	}
	if kind := models.KindOf(id); kind != expected {
		return "", validationErrorf(CodeWrongKind, "expected a %s id, got %s", expected, id)
	}
	return id, nil
}

// ParseFoldCount checks that v is an integer (code 103) of at least 2
// (code 104) and returns it.
func ParseFoldCount(v any) (int, error) {
	var k int
	switch n := v.(type) {
	case int:
		k = n
	case int64:
		k = int(n)
	default:
		return 0, validationErrorf(CodeInvalidFoldCount, "fold count must be an integer, got %v (%T)", v, v)
	}
	return k, validateFoldCount(k)
}

func validateFoldCount(k int) error {
	if k < 2 {
		return validationErrorf(CodeFoldCountTooSmall, "fold count must be at least 2, got %d", k)
	}
	return nil
}

// ValidateObjectiveField checks that objectiveID names a selectable field
// of the dataset (preferred, categorical or numeric) and returns its
// display name. An empty objectiveID falls back to the dataset's declared
// default objective. Fails with code 106 when the field is not selectable.
func ValidateObjectiveField(objectiveID string, dataset *models.Dataset) (string, error) {
	if objectiveID == "" {
		objectiveID = dataset.DefaultObjective
	}

	selectable := dataset.SelectableFields()
	field, ok := selectable[objectiveID]
	if !ok {
		return "", validationErrorf(CodeObjectiveNotSelectable,
			"objective field %q is not selectable: must be preferred and categorical or numeric (selectable: %v)",
			objectiveID, fieldIDs(selectable))
	}
	return field.Name, nil
}

func fieldIDs(fields map[string]models.Field) []string {
	ids := make([]string, 0, len(fields))
	for id := range fields {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
