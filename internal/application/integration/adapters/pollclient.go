package adapters

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
)

var errCircuitOpen = errors.New("provider circuit open")

// pollClient wraps provider poll calls with a timeout-bearing HTTP client
// and a circuit breaker, so a degraded upstream trips fast instead of
// stalling the poll cycle.
type pollClient struct {
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
}

func newPollClient(name string, client *http.Client) *pollClient {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &pollClient{
		client: client,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        name,
			MaxRequests: 3,
			Interval:    time.Minute,
			Timeout:     2 * time.Minute,
		}),
	}
}

func (p *pollClient) do(ctx context.Context, req *http.Request) (*http.Response, error) {
	result, err := p.breaker.Execute(func() (interface{}, error) {
		resp, execErr := p.client.Do(req.WithContext(ctx))
		if execErr != nil {
			return nil, execErr
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			resp.Body.Close()
			return nil, fmt.Errorf("unexpected status code %d", resp.StatusCode)
		}
		return resp, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %v", errCircuitOpen, err)
		}
		return nil, err
	}
	return result.(*http.Response), nil
}
