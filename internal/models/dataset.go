package models

// Field optypes reported by the platform.
const (
	OptypeCategorical = "categorical"
	OptypeNumeric     = "numeric"
	OptypeText        = "text"
	OptypeItems       = "items"
)

// Field describes a single dataset field.
type Field struct {
	Name      string `json:"name"`
	Optype    string `json:"optype"`
	Preferred bool   `json:"preferred"`
}

// Selectable reports whether the field can serve as an objective field:
// it must be preferred and either categorical or numeric.
func (f Field) Selectable() bool {
	if !f.Preferred {
		return false
	}
	return f.Optype == OptypeCategorical || f.Optype == OptypeNumeric
}

// Dataset is the cached representation of a remote dataset.
type Dataset struct {
	ID   string `json:"resource"`
	Name string `json:"name"`

	// Fields maps field id (e.g. "000001") to its description.
	Fields map[string]Field `json:"fields"`

	// DefaultObjective is the field id the platform declares as the
	// dataset's default objective, if any.
	DefaultObjective string `json:"default_objective,omitempty"`
}

// SelectableFields returns the ids of all fields usable as an objective.
func (d *Dataset) SelectableFields() map[string]Field {
	selectable := make(map[string]Field)
	for id, field := range d.Fields {
		if field.Selectable() {
			selectable[id] = field
		}
	}
	return selectable
}
