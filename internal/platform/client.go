package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"

	"github.com/imishinist/crossval-cli/internal/config"
	"github.com/imishinist/crossval-cli/internal/models"
)

// Waits back off exponentially between polls, capped so long-running
// trainings do not stretch the interval without bound.
const (
	backoffMultiplier = 1.5
	maxPollInterval   = 30 * time.Second
)

// Client talks to the prediction platform's REST API. All resources are
// created asynchronously; Wait and WaitAll poll until a terminal state.
type Client struct {
	baseURL *url.URL
	auth    url.Values
	http    *http.Client
	logger  zerolog.Logger

	pollInterval time.Duration
}

func NewClient(cfg *config.Config, logger zerolog.Logger) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	baseURL, err := url.Parse(cfg.APIURL)
	if err != nil {
		return nil, fmt.Errorf("invalid API URL %q: %w", cfg.APIURL, err)
	}

	auth := url.Values{}
	auth.Set("username", cfg.Username)
	auth.Set("api_key", cfg.APIKey)

	return &Client{
		baseURL:      baseURL,
		auth:         auth,
		http:         &http.Client{},
		logger:       logger,
		pollInterval: cfg.PollInterval,
	}, nil
}

// endpoint builds the URL for a resource path ("dataset" or "dataset/<id>")
// with authentication query parameters attached.
func (c *Client) endpoint(path string) string {
	u := *c.baseURL
	u.Path = strings.TrimSuffix(u.Path, "/") + "/" + path
	u.RawQuery = c.auth.Encode()
	return u.String()
}

func (c *Client) do(ctx context.Context, method, path string, body any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, errors.Wrap(err, "failed to encode request body")
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path), reader)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to build %s %s request", method, path)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "%s %s failed", method, path)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s %s response", method, path)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, errors.Newf("%s %s: unexpected status %d: %s", method, path, resp.StatusCode, strings.TrimSpace(string(payload)))
	}
	return payload, nil
}

// Create submits an asynchronous create request for the given kind and
// returns the pending resource representation immediately.
func (c *Client) Create(ctx context.Context, kind models.Kind, args map[string]any) (*Resource, error) {
	payload, err := c.do(ctx, http.MethodPost, string(kind), args)
	if err != nil {
		return nil, err
	}
	res, err := decodeResource(payload)
	if err != nil {
		return nil, err
	}

	c.logger.Debug().
		Str("kind", string(kind)).
		Str("resource", res.ID).
		Msg("resource created")
	return res, nil
}

// Fetch retrieves the current representation of a resource.
func (c *Client) Fetch(ctx context.Context, id string) (*Resource, error) {
	payload, err := c.do(ctx, http.MethodGet, id, nil)
	if err != nil {
		return nil, err
	}
	return decodeResource(payload)
}

// Wait polls a resource until it reaches a terminal state. A faulty
// terminal state is reported as a ResourceError. There is no timeout of
// its own; callers bound it through the context.
func (c *Client) Wait(ctx context.Context, id string) (*Resource, error) {
	interval := c.pollInterval
	for {
		res, err := c.Fetch(ctx, id)
		if err != nil {
			return nil, err
		}

		switch res.Status.Code {
		case StatusFinished:
			c.logger.Debug().Str("resource", id).Msg("resource finished")
			return res, nil
		case StatusFaulty:
			return nil, &ResourceError{ID: id, Message: res.Status.Message}
		}

		c.logger.Debug().
			Str("resource", id).
			Int("status", res.Status.Code).
			Dur("next_poll", interval).
			Msg("waiting for resource")

		timer := time.NewTimer(interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, errors.Wrapf(ctx.Err(), "interrupted while waiting for %s", id)
		case <-timer.C:
		}

		interval = time.Duration(float64(interval) * backoffMultiplier)
		if interval > maxPollInterval {
			interval = maxPollInterval
		}
	}
}

// WaitAll blocks until every id is terminal, returning the terminal
// representations in the order the ids were given. The first failure
// aborts the wait.
func (c *Client) WaitAll(ctx context.Context, ids []string) ([]*Resource, error) {
	resources := make([]*Resource, 0, len(ids))
	for _, id := range ids {
		res, err := c.Wait(ctx, id)
		if err != nil {
			return nil, err
		}
		resources = append(resources, res)
	}
	return resources, nil
}

// CreateAndWait combines Create and Wait on the created resource.
func (c *Client) CreateAndWait(ctx context.Context, kind models.Kind, args map[string]any) (*Resource, error) {
	res, err := c.Create(ctx, kind, args)
	if err != nil {
		return nil, err
	}
	return c.Wait(ctx, res.ID)
}

// Delete removes a resource.
func (c *Client) Delete(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, id, nil)
	return err
}

// DeleteAll best-effort deletes every id, returning the last error seen.
func (c *Client) DeleteAll(ctx context.Context, ids []string) error {
	var lastErr error
	for _, id := range ids {
		if err := c.Delete(ctx, id); err != nil {
			c.logger.Warn().Err(err).Str("resource", id).Msg("failed to delete resource")
			lastErr = err
		}
	}
	return lastErr
}
