package ai

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/redmark-labs/redmark-cli/internal/core/domain"
	"github.com/redmark-labs/redmark-cli/internal/core/ports/driven"
)

// Ensure RateLimitedLLM implements the interface.
var _ driven.LLMService = (*RateLimitedLLM)(nil)

// rateLimitBackoff is how long Generate calls pause after the provider
// reports a 429.
const rateLimitBackoff = 30 * time.Second

// RateLimitedLLM throttles Generate calls to a wrapped LLM service.
// It uses a token bucket algorithm with backoff for 429 responses.
type RateLimitedLLM struct {
	inner   driven.LLMService
	limiter *rate.Limiter

	mu      sync.Mutex
	retryAt time.Time
}

// NewRateLimitedLLM wraps svc with a token bucket sustaining rps
// requests per second and the given burst. A non-positive rps returns
// svc unwrapped; a burst below one is raised to one.
func NewRateLimitedLLM(svc driven.LLMService, rps float64, burst int) driven.LLMService {
	if svc == nil || rps <= 0 {
		return svc
	}
	if burst < 1 {
		burst = 1
	}

	return &RateLimitedLLM{
		inner:   svc,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

// Generate waits for rate limit clearance, then delegates to the
// wrapped service. A 429 from the provider starts a backoff window
// that later calls wait out.
func (s *RateLimitedLLM) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	if err := s.wait(ctx); err != nil {
		return "", err
	}

	out, err := s.inner.Generate(ctx, prompt, opts)
	if err != nil && errors.Is(err, domain.ErrRateLimited) {
		s.recordRateLimitError()
	}
	return out, err
}

// wait blocks until a request can be made without exceeding the rate
// limit, honouring any backoff from previous 429 responses.
func (s *RateLimitedLLM) wait(ctx context.Context) error {
	s.mu.Lock()
	retryAt := s.retryAt
	s.mu.Unlock()

	if time.Now().Before(retryAt) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Until(retryAt)):
		}
	}

	return s.limiter.Wait(ctx)
}

// recordRateLimitError sets the backoff period after a 429 response.
func (s *RateLimitedLLM) recordRateLimitError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.retryAt = time.Now().Add(rateLimitBackoff)
}

// ModelName returns the wrapped service's model name.
func (s *RateLimitedLLM) ModelName() string {
	return s.inner.ModelName()
}

// Ping delegates to the wrapped service without consuming rate budget.
func (s *RateLimitedLLM) Ping(ctx context.Context) error {
	return s.inner.Ping(ctx)
}

// Close releases the wrapped service.
func (s *RateLimitedLLM) Close() error {
	return s.inner.Close()
}
