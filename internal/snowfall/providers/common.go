package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"

	"github.com/powderhq/powder/internal/httpcache"
	"github.com/powderhq/powder/internal/snowfall"
)

const (
	cmToInches = 0.393701
	mmToInches = 0.0393701

	userAgent = "powder/1.0 (+https://github.com/powderhq/powder)"
)

// Deps bundles the shared outbound HTTP client and response cache every
// provider variant fetches through.
type Deps struct {
	Client *http.Client
	Cache  *httpcache.Cache
}

func newBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})
}

// getJSON performs a cache-first GET against endpoint and unmarshals the
// body into target. The cache is consulted before the breaker or the
// network; fetch failures are returned as FetchError and never cached,
// decode failures as ParseError.
func (d Deps) getJSON(ctx context.Context, provider string, cb *gobreaker.CircuitBreaker,
	endpoint string, query url.Values, headers map[string]string, target any,
) error {
	reqURL := endpoint
	if len(query) > 0 {
		reqURL = endpoint + "?" + query.Encode()
	}

	body, err := d.Cache.GetOrFetch(http.MethodGet+" "+reqURL, func() ([]byte, error) {
		return d.fetch(ctx, provider, cb, reqURL, headers)
	})
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, target); err != nil {
		return &snowfall.ParseError{Provider: provider, Field: "body", Err: err}
	}
	return nil
}

func (d Deps) fetch(ctx context.Context, provider string, cb *gobreaker.CircuitBreaker,
	reqURL string, headers map[string]string,
) ([]byte, error) {
	result, err := cb.Execute(func() (any, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, &snowfall.FetchError{Provider: provider, Err: err}
		}
		req.Header.Set("User-Agent", userAgent)
		for k, v := range headers {
			req.Header.Set(k, v)
		}

		resp, err := d.Client.Do(req)
		if err != nil {
			return nil, &snowfall.FetchError{Provider: provider, Err: err}
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, &snowfall.FetchError{
				Provider: provider,
				Status:   resp.StatusCode,
				Err:      fmt.Errorf("unexpected status %d", resp.StatusCode),
			}
		}

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, &snowfall.FetchError{Provider: provider, Err: err}
		}
		return body, nil
	})
	if err != nil {
		var fe *snowfall.FetchError
		if errors.As(err, &fe) {
			return nil, err
		}
		// Open breaker or other breaker-level refusal.
		return nil, &snowfall.FetchError{Provider: provider, Err: err}
	}
	return result.([]byte), nil
}
