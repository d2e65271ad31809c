package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/ryo246912/pr-metadata-action/internal/github"
	"github.com/ryo246912/pr-metadata-action/internal/models"
	"github.com/ryo246912/pr-metadata-action/internal/ui"
	"go.uber.org/zap"
)

// BackfillService re-sends metadata for an already merged PR from a workstation
type BackfillService struct {
	client   github.GitHubClient
	repo     github.RepositoryInfo
	prompter ui.Prompter
	metadata *MetadataService
	logger   *zap.Logger
}

// NewBackfillService creates a new service instance
func NewBackfillService(client github.GitHubClient, repo github.RepositoryInfo, prompter ui.Prompter, metadata *MetadataService, logger *zap.Logger) *BackfillService {
	return &BackfillService{
		client:   client,
		repo:     repo,
		prompter: prompter,
		metadata: metadata,
		logger:   logger,
	}
}

// ProcessBackfill handles the complete workflow
func (s *BackfillService) ProcessBackfill(ctx context.Context, args []string, dest Destination) (Outcome, error) {
	prNumber, err := s.getPRNumber(ctx, args)
	if err != nil {
		return Outcome{}, fmt.Errorf("failed to get PR number: %w", err)
	}

	ref := models.PullRequestRef{Owner: s.repo.GetOwner(), Repo: s.repo.GetName(), Number: prNumber}
	pr, err := s.client.GetPullRequest(ctx, ref)
	if err != nil {
		return Outcome{}, &UpstreamFetchError{Stream: StreamPullRequest, Err: err}
	}
	if !pr.GetMerged() {
		s.logger.Info("PR is not merged. Skipping.", zap.Int("number", prNumber))
		return Outcome{Skipped: true}, nil
	}

	confirmed, err := s.prompter.ConfirmSubmission(prNumber, pr.GetTitle())
	if err != nil {
		return Outcome{}, fmt.Errorf("failed to confirm submission: %w", err)
	}
	if !confirmed {
		return Outcome{}, ErrSubmissionCancelled
	}

	return s.metadata.SubmitPullRequest(ctx, ref, dest)
}

// getPRNumber gets PR number from args or prompts user
func (s *BackfillService) getPRNumber(ctx context.Context, args []string) (int, error) {
	if len(args) >= 1 {
		prNumber, err := strconv.Atoi(args[0])
		if err != nil {
			return 0, fmt.Errorf("invalid PR number: %w", err)
		}
		if prNumber <= 0 {
			return 0, fmt.Errorf("PR number must be positive")
		}
		return prNumber, nil
	}

	// No PR number provided, prompt user
	prs, err := s.client.SearchMergedPRs(ctx, s.repo.GetOwner(), s.repo.GetName())
	if err != nil {
		return 0, fmt.Errorf("failed to get merged PRs: %w", err)
	}

	return s.prompter.SelectPR(prs)
}
