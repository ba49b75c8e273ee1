package models

import (
	"regexp"
	"strings"
)

// Kind identifies a remote resource type on the prediction platform.
type Kind string

const (
	KindDataset    Kind = "dataset"
	KindModel      Kind = "model"
	KindEnsemble   Kind = "ensemble"
	KindEvaluation Kind = "evaluation"
)

// Resource ids look like "dataset/5f3a9c0e1d2b4e7f8a0b1c2d".
var resourceIDPattern = regexp.MustCompile(`^[a-z]+/[a-zA-Z0-9_-]+$`)

// IsResourceID reports whether id has the "<kind>/<identifier>" shape.
func IsResourceID(id string) bool {
	return resourceIDPattern.MatchString(id)
}

// KindOf extracts the kind tag from a resource id.
// Returns "" if the id is not well formed.
func KindOf(id string) Kind {
	kind, _, found := strings.Cut(id, "/")
	if !found {
		return ""
	}
	return Kind(kind)
}
