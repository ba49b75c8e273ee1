package platform

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imishinist/crossval-cli/internal/config"
	"github.com/imishinist/crossval-cli/internal/models"
)

func testConfig(url string) *config.Config {
	return &config.Config{
		APIURL:       url,
		Username:     "alice",
		APIKey:       "secret",
		PollInterval: time.Millisecond,
	}
}

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(testConfig(server.URL), zerolog.Nop())
	require.NoError(t, err)
	return client
}

func TestNewClientInvalidConfig(t *testing.T) {
	_, err := NewClient(&config.Config{}, zerolog.Nop())
	assert.Error(t, err)
}

func TestClientCreate(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/dataset", r.URL.Path)
		assert.Equal(t, "alice", r.URL.Query().Get("username"))
		assert.Equal(t, "secret", r.URL.Query().Get("api_key"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var args map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&args))
		assert.Equal(t, "dataset/src", args["origin_dataset"])

		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"resource": "dataset/new", "name": "D - fold 0", "status": {"code": 1}}`)
	}))

	res, err := client.Create(context.Background(), models.KindDataset, map[string]any{
		"origin_dataset": "dataset/src",
	})
	require.NoError(t, err)
	assert.Equal(t, "dataset/new", res.ID)
	assert.Equal(t, "D - fold 0", res.Name)
	assert.Equal(t, StatusQueued, res.Status.Code)
	assert.False(t, res.Status.Terminal())
}

func TestClientCreateHTTPError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"code": 400, "message": "bad arguments"}`, http.StatusBadRequest)
	}))

	_, err := client.Create(context.Background(), models.KindModel, map[string]any{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
}

func TestClientWait(t *testing.T) {
	var polls int
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/model/abc123", r.URL.Path)
		polls++
		code := StatusInProgress
		if polls >= 3 {
			code = StatusFinished
		}
		fmt.Fprintf(w, `{"resource": "model/abc123", "status": {"code": %d}}`, code)
	}))

	res, err := client.Wait(context.Background(), "model/abc123")
	require.NoError(t, err)
	assert.Equal(t, StatusFinished, res.Status.Code)
	assert.GreaterOrEqual(t, polls, 3)
}

func TestClientWaitFaulty(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"resource": "model/abc123", "status": {"code": -1, "message": "objective field missing"}}`)
	}))

	_, err := client.Wait(context.Background(), "model/abc123")
	var resErr *ResourceError
	require.ErrorAs(t, err, &resErr)
	assert.Equal(t, "model/abc123", resErr.ID)
	assert.Contains(t, resErr.Message, "objective field missing")
}

func TestClientWaitContextCanceled(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"resource": "model/abc123", "status": {"code": 3}}`)
	}))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := client.Wait(ctx, "model/abc123")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestClientWaitAllOrder(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"resource": "%s", "status": {"code": 5}}`, r.URL.Path[1:])
	}))

	ids := []string{"evaluation/b", "evaluation/a", "evaluation/c"}
	resources, err := client.WaitAll(context.Background(), ids)
	require.NoError(t, err)
	require.Len(t, resources, 3)
	for i, res := range resources {
		assert.Equal(t, ids[i], res.ID)
	}
}

func TestClientDelete(t *testing.T) {
	var deleted []string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		deleted = append(deleted, r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))

	require.NoError(t, client.DeleteAll(context.Background(), []string{"dataset/a", "model/b"}))
	assert.Equal(t, []string{"/dataset/a", "/model/b"}, deleted)
}

func TestClientGetDataset(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/dataset/abc", r.URL.Path)
		fmt.Fprint(w, `{
			"resource": "dataset/abc",
			"name": "iris",
			"status": {"code": 5},
			"objective_field": {"id": "000004"},
			"fields": {
				"000000": {"name": "sepal length", "optype": "numeric", "preferred": true},
				"000004": {"name": "species", "optype": "categorical", "preferred": true}
			}
		}`)
	}))

	dataset, err := client.GetDataset(context.Background(), "dataset/abc")
	require.NoError(t, err)
	assert.Equal(t, "dataset/abc", dataset.ID)
	assert.Equal(t, "iris", dataset.Name)
	assert.Equal(t, "000004", dataset.DefaultObjective)
	require.Len(t, dataset.Fields, 2)
	assert.Equal(t, "species", dataset.Fields["000004"].Name)
	assert.True(t, dataset.Fields["000004"].Selectable())
}
