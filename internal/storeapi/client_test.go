package storeapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storehours/internal/model"
)

const storeTimesBody = `[
  {"id": 1, "day_of_week": 1, "is_open": true, "start_time": "09:00", "end_time": "17:00"},
  {"id": "2", "day_of_week": 0, "is_open": false, "start_time": null, "end_time": null}
]`

const overridesBody = `[
  {"id": 10, "day": 25, "month": 12, "is_open": false, "start_time": "", "end_time": ""},
  {"id": 11, "day": 4, "month": 7, "is_open": true, "start_time": "10:00", "end_time": "14:00"}
]`

type backend struct {
	*httptest.Server
	hits   atomic.Int32
	apiKey atomic.Value
}

func newBackend(t *testing.T, times, overrides string) *backend {
	t.Helper()
	b := &backend{}
	mux := http.NewServeMux()
	mux.HandleFunc("/store-times/", func(w http.ResponseWriter, r *http.Request) {
		b.hits.Add(1)
		b.apiKey.Store(r.Header.Get("x-api-key"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(times))
	})
	mux.HandleFunc("/store-overrides/", func(w http.ResponseWriter, r *http.Request) {
		b.hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(overrides))
	})
	b.Server = httptest.NewServer(mux)
	t.Cleanup(b.Close)
	return b
}

func TestClient_StoreTimes(t *testing.T) {
	srv := newBackend(t, storeTimesBody, overridesBody)
	c := NewClient(srv.URL+"/", "key-1", time.Second, nil)

	weekly, err := c.StoreTimes(context.Background())
	require.NoError(t, err)
	require.Len(t, weekly, 2)

	assert.Equal(t, model.ID("1"), weekly[0].ID)
	assert.Equal(t, "09:00", weekly[0].StartTime)
	assert.Equal(t, model.ID("2"), weekly[1].ID)
	assert.Empty(t, weekly[1].StartTime)
	assert.Equal(t, "key-1", srv.apiKey.Load())
}

func TestClient_StoreOverridesKeepOrder(t *testing.T) {
	srv := newBackend(t, storeTimesBody, overridesBody)
	c := NewClient(srv.URL, "", time.Second, nil)

	overrides, err := c.StoreOverrides(context.Background())
	require.NoError(t, err)
	require.Len(t, overrides, 2)
	assert.Equal(t, model.ID("10"), overrides[0].ID)
	assert.Equal(t, model.OverrideKey{Day: 4, Month: time.July}, overrides[1].Key())
}

func TestClient_RejectsInvalidPayload(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "weekday out of range", body: `[{"id": 1, "day_of_week": 7, "is_open": false}]`},
		{name: "bad time", body: `[{"id": 1, "day_of_week": 1, "is_open": true, "start_time": "9am", "end_time": "17:00"}]`},
		{name: "open without end", body: `[{"id": 1, "day_of_week": 1, "is_open": true, "start_time": "09:00"}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newBackend(t, tt.body, "[]")
			c := NewClient(srv.URL, "", time.Second, nil)

			_, err := c.StoreTimes(context.Background())
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidPayload)
		})
	}
}

func TestClient_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"message": "maintenance"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", time.Second, nil)
	_, err := c.StoreOverrides(context.Background())
	require.Error(t, err)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusServiceUnavailable, statusErr.StatusCode)
	assert.Equal(t, "maintenance", statusErr.Message)
	assert.Error(t, c.HealthCheck(context.Background()))
}

func TestClient_RedisCache(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	srv := newBackend(t, storeTimesBody, overridesBody)
	c := NewClient(srv.URL, "", time.Second, nil)
	c.UseRedisCache(rdb, time.Minute)

	first, err := c.StoreTimes(context.Background())
	require.NoError(t, err)
	second, err := c.StoreTimes(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), srv.hits.Load())
	assert.True(t, mr.Exists(cacheKeyStoreTimes))

	mr.FastForward(2 * time.Minute)
	_, err = c.StoreTimes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), srv.hits.Load())

	require.NoError(t, c.Invalidate(context.Background()))
	assert.False(t, mr.Exists(cacheKeyStoreTimes))
}

func TestClient_RateLimitHonorsContext(t *testing.T) {
	srv := newBackend(t, storeTimesBody, overridesBody)
	c := NewClient(srv.URL, "", time.Second, nil)
	c.UseRateLimit(0.001, 1)

	_, err := c.StoreTimes(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = c.StoreTimes(ctx)
	assert.Error(t, err)
	assert.Equal(t, int32(1), srv.hits.Load())
}

func TestClient_HealthCheck(t *testing.T) {
	srv := newBackend(t, storeTimesBody, overridesBody)
	c := NewClient(srv.URL, "", time.Second, nil)
	assert.NoError(t, c.HealthCheck(context.Background()))
}
