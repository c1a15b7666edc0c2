// Package recsapi is the HTTP client for the movie recommendation server.
package recsapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/mmcdole/marquee/internal/domain"
	gobreaker "github.com/sony/gobreaker/v2"
)

// Options configures a Client
type Options struct {
	// Timeout bounds each request; zero means no timeout
	Timeout time.Duration

	// BreakerFailures is the number of consecutive recommendation failures
	// that opens the circuit; zero disables the breaker
	BreakerFailures uint32

	// BreakerCooldown is how long the circuit stays open before probing again
	BreakerCooldown time.Duration
}

// Client implements domain.CatalogRepository and domain.RecommendationRepository
type Client struct {
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[[]byte]
	logger     *slog.Logger
}

// NewClient creates a new recommendation server client
func NewClient(baseURL string, opts Options, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: opts.Timeout,
		},
		logger: logger,
	}
	if opts.BreakerFailures > 0 {
		c.breaker = newBreaker(opts, logger)
	}
	return c
}

func newBreaker(opts Options, logger *slog.Logger) *gobreaker.CircuitBreaker[[]byte] {
	cooldown := opts.BreakerCooldown
	if cooldown <= 0 {
		cooldown = 30 * time.Second
	}
	return gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        "recommendations",
		MaxRequests: 1,
		Timeout:     cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= opts.BreakerFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Info("circuit breaker state change", "name", name, "from", from.String(), "to", to.String())
		},
	})
}

// doRequest performs a GET and returns the body of a 2xx response.
// Transport errors and non-2xx statuses wrap domain.ErrNetworkFailure.
func (c *Client) doRequest(ctx context.Context, path string) ([]byte, error) {
	reqURL := c.baseURL + path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("recsapi request", "url", reqURL)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("recsapi request failed", "url", reqURL, "error", err)
		return nil, fmt.Errorf("%w: %w", domain.ErrNetworkFailure, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %w", domain.ErrNetworkFailure, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Error("recsapi request error", "url", reqURL, "status", resp.StatusCode, "body", string(body))
		return nil, fmt.Errorf("%w: unexpected status code: %d", domain.ErrNetworkFailure, resp.StatusCode)
	}

	return body, nil
}

// GetMovies returns the full catalog in server order
func (c *Client) GetMovies(ctx context.Context) ([]domain.Movie, error) {
	body, err := c.doRequest(ctx, "/movies")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrCatalogLoad, err)
	}

	var items []Movie
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("%w: failed to parse response: %w", domain.ErrCatalogLoad, err)
	}

	c.logger.Info("catalog loaded", "count", len(items))
	return MapMovies(items), nil
}

// GetRecommendations returns the server's recommendations for movieID
func (c *Client) GetRecommendations(ctx context.Context, movieID string) (domain.RecommendationResult, error) {
	path := "/recommendations/" + url.PathEscape(movieID)

	var (
		body []byte
		err  error
	)
	if c.breaker != nil {
		body, err = c.breaker.Execute(func() ([]byte, error) {
			return c.doRequest(ctx, path)
		})
		switch {
		case errors.Is(err, gobreaker.ErrTooManyRequests):
			// Half-open and the probe slot is taken. A newer selection must
			// not fail just because an older one is probing.
			c.logger.Debug("circuit half-open, bypassing breaker", "movieID", movieID)
			body, err = c.doRequest(ctx, path)
		case errors.Is(err, gobreaker.ErrOpenState):
			err = fmt.Errorf("%w: %w", domain.ErrNetworkFailure, err)
		}
	} else {
		body, err = c.doRequest(ctx, path)
	}
	if err != nil {
		return domain.RecommendationResult{}, fmt.Errorf("%w: %w", domain.ErrRecommendationFetch, err)
	}

	var resp RecommendationsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return domain.RecommendationResult{}, fmt.Errorf("%w: failed to parse response: %w", domain.ErrRecommendationFetch, err)
	}

	return MapRecommendations(resp), nil
}
