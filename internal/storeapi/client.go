// Package storeapi fetches weekly hours and overrides from the hours backend.
package storeapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"storehours/internal/metrics"
	"storehours/internal/model"
)

const (
	storeTimesPath     = "/store-times/"
	storeOverridesPath = "/store-overrides/"

	cacheKeyStoreTimes     = "storehours:store-times"
	cacheKeyStoreOverrides = "storehours:store-overrides"
)

// ErrInvalidPayload is returned when the backend sends hours that fail validation.
var ErrInvalidPayload = errors.New("invalid hours payload")

// StatusError is a non-2xx answer from the backend.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("http %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("http %d", e.StatusCode)
}

// Client is an HTTP client for the store hours backend.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
	validate   *validator.Validate
	logger     *zerolog.Logger

	redis    *redis.Client
	cacheTTL time.Duration
}

// NewClient constructs a client with baseURL and an optional API key.
func NewClient(baseURL, apiKey string, timeout time.Duration, logger *zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		validate:   newValidator(),
		logger:     logger,
	}
}

// UseRedisCache configures optional Redis caching for GET endpoints.
func (c *Client) UseRedisCache(redisClient *redis.Client, ttl time.Duration) {
	c.redis = redisClient
	c.cacheTTL = ttl
}

// UseRateLimit caps outbound requests at perSecond with the given burst.
func (c *Client) UseRateLimit(perSecond float64, burst int) {
	if perSecond <= 0 {
		c.limiter = nil
		return
	}
	c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
}

// StoreTimes fetches the weekly hours.
func (c *Client) StoreTimes(ctx context.Context) ([]model.WeeklyHours, error) {
	var weekly []model.WeeklyHours
	if c.readCache(ctx, cacheKeyStoreTimes, &weekly) {
		metrics.IncSourceFetch("store_times", "cache")
		return weekly, nil
	}

	if err := c.doGet(ctx, c.baseURL+storeTimesPath, &weekly); err != nil {
		metrics.IncSourceFetch("store_times", "error")
		return nil, fmt.Errorf("fetch store times: %w", err)
	}
	for i := range weekly {
		if err := c.validate.Struct(weekly[i]); err != nil {
			metrics.IncSourceFetch("store_times", "invalid")
			return nil, fmt.Errorf("store time %d: %w: %v", i, ErrInvalidPayload, err)
		}
	}

	metrics.IncSourceFetch("store_times", "ok")
	c.writeCache(ctx, cacheKeyStoreTimes, weekly)
	return weekly, nil
}

// StoreOverrides fetches the date overrides in backend order.
func (c *Client) StoreOverrides(ctx context.Context) ([]model.Override, error) {
	var overrides []model.Override
	if c.readCache(ctx, cacheKeyStoreOverrides, &overrides) {
		metrics.IncSourceFetch("store_overrides", "cache")
		return overrides, nil
	}

	if err := c.doGet(ctx, c.baseURL+storeOverridesPath, &overrides); err != nil {
		metrics.IncSourceFetch("store_overrides", "error")
		return nil, fmt.Errorf("fetch store overrides: %w", err)
	}
	for i := range overrides {
		if err := c.validate.Struct(overrides[i]); err != nil {
			metrics.IncSourceFetch("store_overrides", "invalid")
			return nil, fmt.Errorf("store override %d: %w: %v", i, ErrInvalidPayload, err)
		}
	}

	metrics.IncSourceFetch("store_overrides", "ok")
	c.writeCache(ctx, cacheKeyStoreOverrides, overrides)
	return overrides, nil
}

// Invalidate drops cached hours so the next call hits the backend.
func (c *Client) Invalidate(ctx context.Context) error {
	if c.redis == nil {
		return nil
	}
	return c.redis.Del(ctx, cacheKeyStoreTimes, cacheKeyStoreOverrides).Err()
}

func (c *Client) readCache(ctx context.Context, key string, out any) bool {
	if c.redis == nil || c.cacheTTL <= 0 {
		return false
	}
	val, err := c.redis.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn().Err(err).Str("key", key).Msg("cache read failed")
		}
		return false
	}
	if err := json.Unmarshal([]byte(val), out); err != nil {
		return false
	}
	return true
}

func (c *Client) writeCache(ctx context.Context, key string, val any) {
	if c.redis == nil || c.cacheTTL <= 0 {
		return
	}
	data, err := json.Marshal(val)
	if err != nil {
		return
	}
	if err := c.redis.Set(ctx, key, data, c.cacheTTL).Err(); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
}

func (c *Client) doGet(ctx context.Context, endpoint string, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	c.addHeaders(req)
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var body struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&body)
		return &StatusError{StatusCode: resp.StatusCode, Message: body.Message}
	}
	if out == nil {
		return nil
	}
	dec := json.NewDecoder(resp.Body)
	return dec.Decode(out)
}

func (c *Client) addHeaders(req *http.Request) {
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}
}

// HealthCheck checks that the backend answers the store times endpoint.
func (c *Client) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+storeTimesPath, http.NoBody)
	if err != nil {
		return err
	}
	c.addHeaders(req)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check failed: %d", resp.StatusCode)
	}
	return nil
}
