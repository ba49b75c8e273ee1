package platform

import (
	"encoding/json"
	"fmt"

	"github.com/imishinist/crossval-cli/internal/models"
)

// Status codes reported inside a resource representation.
const (
	StatusWaiting    = 0
	StatusQueued     = 1
	StatusStarted    = 2
	StatusInProgress = 3
	StatusSummarized = 4
	StatusFinished   = 5
	StatusFaulty     = -1
)

// Status is the asynchronous job state embedded in every resource.
type Status struct {
	Code    int    `json:"code"`
	Message string `json:"message,omitempty"`
}

// Terminal reports whether the resource will not change state anymore.
func (s Status) Terminal() bool {
	return s.Code == StatusFinished || s.Code == StatusFaulty
}

// Resource is the generic representation of a remote resource. Raw holds
// the full JSON body so typed views can be decoded from it.
type Resource struct {
	ID     string `json:"resource"`
	Name   string `json:"name,omitempty"`
	Status Status `json:"status"`

	Raw json.RawMessage `json:"-"`
}

// Kind returns the resource's kind tag.
func (r *Resource) Kind() models.Kind {
	return models.KindOf(r.ID)
}

// Decode unmarshals the full representation into v.
func (r *Resource) Decode(v any) error {
	return json.Unmarshal(r.Raw, v)
}

func decodeResource(body []byte) (*Resource, error) {
	var res Resource
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, fmt.Errorf("failed to decode resource representation: %w", err)
	}
	res.Raw = body
	return &res, nil
}

// ResourceError is returned when a resource reaches the faulty terminal
// state. It carries the resource id and the platform's reported cause.
type ResourceError struct {
	ID      string
	Message string
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("resource %s failed: %s", e.ID, e.Message)
}
