package platform

import (
	"context"
	"fmt"

	"github.com/imishinist/crossval-cli/internal/models"
)

// datasetBody is the wire shape of a dataset representation. The objective
// field declared by the platform sits under "objective_field".
type datasetBody struct {
	Resource string                  `json:"resource"`
	Name     string                  `json:"name"`
	Fields   map[string]models.Field `json:"fields"`

	ObjectiveField struct {
		ID string `json:"id"`
	} `json:"objective_field"`
}

// GetDataset fetches a dataset and converts it into its typed
// representation.
func (c *Client) GetDataset(ctx context.Context, id string) (*models.Dataset, error) {
	res, err := c.Fetch(ctx, id)
	if err != nil {
		return nil, err
	}

	var body datasetBody
	if err := res.Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode dataset %s: %w", id, err)
	}

	return &models.Dataset{
		ID:               body.Resource,
		Name:             body.Name,
		Fields:           body.Fields,
		DefaultObjective: body.ObjectiveField.ID,
	}, nil
}
