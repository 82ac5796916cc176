package fred

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"FinCycle/internal/domain/models"
	"FinCycle/pkg/config"
	apphttp "FinCycle/pkg/http"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, apiKey string, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(config.FRED{APIKey: apiKey, BaseURL: srv.URL + "/", Timeout: time.Second, Limit: 240}, nil)
}

func TestObservations(t *testing.T) {
	c := newTestClient(t, "secret", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/series/observations", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "INDPRO", q.Get("series_id"))
		assert.Equal(t, "secret", q.Get("api_key"))
		assert.Equal(t, "json", q.Get("file_type"))
		assert.Equal(t, "desc", q.Get("sort_order"))
		assert.Equal(t, "240", q.Get("limit"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"observations":[
			{"date":"2025-02-01","value":"103.25"},
			{"date":"2025-01-01","value":"."},
			{"date":"2024-12-01","value":"-0.5"}
		]}`))
	})

	obs, err := c.Observations(context.Background(), "INDPRO")
	require.NoError(t, err)
	require.Len(t, obs, 3)

	require.NotNil(t, obs[0].Value)
	assert.InDelta(t, 103.25, *obs[0].Value, 1e-12)
	assert.Equal(t, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), obs[0].Date)
	assert.False(t, obs[1].Valid())
	assert.InDelta(t, -0.5, *obs[2].Value, 1e-12)
}

func TestObservationsStatusError(t *testing.T) {
	c := newTestClient(t, "secret", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	})

	_, err := c.Observations(context.Background(), "INDPRO")
	var se *apphttp.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusTooManyRequests, se.StatusCode)
	assert.Contains(t, err.Error(), "rate limited")
}

func TestObservationsMalformed(t *testing.T) {
	tests := map[string]string{
		"bad value": `{"observations":[{"date":"2025-01-01","value":"n/a"}]}`,
		"bad date":  `{"observations":[{"date":"01/01/2025","value":"1"}]}`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			c := newTestClient(t, "secret", func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(body))
			})
			_, err := c.Observations(context.Background(), "X")
			assert.True(t, errors.Is(err, ErrMalformedPayload), "got %v", err)
		})
	}
}

func TestObservationsInvalidJSON(t *testing.T) {
	c := newTestClient(t, "secret", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"observations":`))
	})
	_, err := c.Observations(context.Background(), "X")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	c := New(config.FRED{BaseURL: "http://localhost"}, nil)
	var ce *models.ConfigError
	require.ErrorAs(t, c.Validate(), &ce)
	assert.Equal(t, "fred.api_key", ce.Field)

	c = New(config.FRED{APIKey: "k", BaseURL: "http://localhost"}, nil)
	assert.NoError(t, c.Validate())
}
