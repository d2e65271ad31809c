// Package submit delivers a payload to the analytics endpoint with bounded retries.
package submit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ryo246912/pr-metadata-action/internal/models"
	"github.com/ryo246912/pr-metadata-action/internal/retry"
	"go.uber.org/zap"
)

// DefaultTimeout bounds a single POST attempt
const DefaultTimeout = 30 * time.Second

// Result is the outcome of a submission, reported on success and on failure.
type Result struct {
	// Status is the HTTP status of the last attempt, or 0 if it got no response.
	Status int
	// Attempts is the number of POSTs performed.
	Attempts int
}

// Submitter POSTs payloads, retrying every failure under its policy
type Submitter struct {
	client *http.Client
	policy retry.Policy
	timer  retry.Timer
	logger *zap.Logger
	onFail AttemptHook
}

// AttemptHook observes a failed attempt; status is 0 when no response was received
type AttemptHook func(attempt, status int, err error)

// Option configures a Submitter
type Option func(*Submitter)

// WithHTTPClient sets the client used for POSTs
func WithHTTPClient(client *http.Client) Option {
	return func(s *Submitter) { s.client = client }
}

// WithPolicy replaces retry.DefaultPolicy
func WithPolicy(policy retry.Policy) Option {
	return func(s *Submitter) { s.policy = policy }
}

// WithTimer replaces the real-time wait between attempts
func WithTimer(timer retry.Timer) Option {
	return func(s *Submitter) { s.timer = timer }
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(s *Submitter) { s.logger = logger }
}

// WithAttemptHook registers a callback for every failed attempt
func WithAttemptHook(hook AttemptHook) Option {
	return func(s *Submitter) { s.onFail = hook }
}

// New creates a submitter with the default policy
func New(opts ...Option) *Submitter {
	s := &Submitter{
		client: &http.Client{Timeout: DefaultTimeout},
		policy: retry.DefaultPolicy(),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit sends payload to endpoint until a 2xx response or the policy is exhausted.
// The payload is encoded once; every attempt sends the same bytes.
// The returned Result is always populated; a *DeliveryError is returned only after
// the last attempt failed.
func (s *Submitter) Submit(ctx context.Context, payload *models.SubmissionPayload, endpoint, token string) (Result, error) {
	var result Result

	body, err := json.Marshal(payload)
	if err != nil {
		return result, fmt.Errorf("failed to encode payload: %w", err)
	}

	var lastErr error
	err = retry.Do(ctx, s.policy, s.timer, func(attempt int) error {
		result.Attempts = attempt
		s.logger.Info("Sending PR data", zap.Int("attempt", attempt), zap.Int("max_attempts", s.policy.MaxAttempts))

		status, err := s.post(ctx, endpoint, token, body)
		result.Status = status
		if err != nil {
			lastErr = err
			s.logger.Warn("Attempt failed",
				zap.Int("attempt", attempt),
				zap.Int("status", status),
				zap.Error(err))
			if s.onFail != nil {
				s.onFail(attempt, status, err)
			}
			return err
		}

		s.logger.Info("Successfully sent PR data", zap.Int("status", status))
		return nil
	}, func(attempt int, err error, next time.Duration) {
		s.logger.Info("Retrying", zap.Int("attempt", attempt+1), zap.Duration("delay", next))
	})
	if err == nil {
		return result, nil
	}
	if lastErr == nil || ctx.Err() != nil {
		lastErr = err
	}

	s.logger.Error("All attempts failed", zap.Int("attempts", result.Attempts), zap.Int("status", result.Status))
	return result, &DeliveryError{Attempts: result.Attempts, Status: result.Status, Err: lastErr}
}

// post performs one attempt and returns the observed status (0 without a response)
func (s *Submitter) post(ctx context.Context, endpoint, token string, body []byte) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return resp.StatusCode, &StatusError{StatusCode: resp.StatusCode}
	}
	return resp.StatusCode, nil
}
