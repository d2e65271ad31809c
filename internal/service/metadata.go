package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/ryo246912/pr-metadata-action/internal/actions"
	"github.com/ryo246912/pr-metadata-action/internal/models"
	"github.com/ryo246912/pr-metadata-action/internal/submit"
	"go.uber.org/zap"
)

// OutputHTTPStatus is the step output carrying the final status code
const OutputHTTPStatus = "http_status"

// Submitter delivers a payload and reports the last observed status
type Submitter interface {
	Submit(ctx context.Context, payload *models.SubmissionPayload, endpoint, token string) (submit.Result, error)
}

// Destination is where payloads are POSTed
type Destination struct {
	Endpoint string
	Token    string
}

// Outcome summarizes a run
type Outcome struct {
	// Skipped is set when the pull request was not merged.
	Skipped bool
	// Submitted is set once the submission step ran, whatever its result.
	Submitted bool
	Status    int
	Attempts  int
}

// MetadataService contains the business logic
type MetadataService struct {
	aggregator *Aggregator
	submitter  Submitter
	outputs    actions.OutputWriter
	logger     *zap.Logger
}

// NewMetadataService creates a new service instance
func NewMetadataService(aggregator *Aggregator, submitter Submitter, outputs actions.OutputWriter, logger *zap.Logger) *MetadataService {
	return &MetadataService{
		aggregator: aggregator,
		submitter:  submitter,
		outputs:    outputs,
		logger:     logger,
	}
}

// ProcessEvent handles the complete workflow for the triggering event
func (s *MetadataService) ProcessEvent(ctx context.Context, event *actions.Context, dest Destination) (Outcome, error) {
	pr, ok := event.PullRequest()
	if !ok {
		return Outcome{}, ErrNotPullRequestEvent
	}
	if !pr.GetMerged() {
		s.logger.Info("PR is not merged. Skipping action.", zap.Int("number", pr.GetNumber()))
		return Outcome{Skipped: true}, nil
	}

	ref := models.PullRequestRef{Owner: event.Owner, Repo: event.Repo, Number: pr.GetNumber()}
	return s.SubmitPullRequest(ctx, ref, dest)
}

// SubmitPullRequest aggregates ref and delivers it
func (s *MetadataService) SubmitPullRequest(ctx context.Context, ref models.PullRequestRef, dest Destination) (Outcome, error) {
	payload, err := s.aggregator.Aggregate(ctx, ref)
	if err != nil {
		return Outcome{}, err
	}
	return s.Deliver(ctx, payload, dest)
}

// Deliver submits payload and publishes the final status as a step output,
// including when every attempt failed
func (s *MetadataService) Deliver(ctx context.Context, payload *models.SubmissionPayload, dest Destination) (Outcome, error) {
	if err := payload.Validate(); err != nil {
		return Outcome{}, fmt.Errorf("invalid payload: %w", err)
	}

	result, err := s.submitter.Submit(ctx, payload, dest.Endpoint, dest.Token)
	outcome := Outcome{Submitted: true, Status: result.Status, Attempts: result.Attempts}

	if outErr := s.outputs.SetOutput(OutputHTTPStatus, strconv.Itoa(result.Status)); outErr != nil {
		if err == nil {
			return outcome, fmt.Errorf("failed to set output: %w", outErr)
		}
		s.logger.Error("Failed to set output", zap.Error(outErr))
	}

	return outcome, err
}
