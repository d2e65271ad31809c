package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/cli/go-gh/v2/pkg/auth"
	"github.com/cli/go-gh/v2/pkg/repository"
	"github.com/ryo246912/pr-metadata-action/internal/actions"
	"github.com/ryo246912/pr-metadata-action/internal/config"
	"github.com/ryo246912/pr-metadata-action/internal/github"
	"github.com/ryo246912/pr-metadata-action/internal/logger"
	"github.com/ryo246912/pr-metadata-action/internal/service"
	"github.com/ryo246912/pr-metadata-action/internal/submit"
	"github.com/ryo246912/pr-metadata-action/internal/ui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RepositoryAdapter adapts repository.Repository to our interface
type RepositoryAdapter struct {
	repo *repository.Repository
}

func (r *RepositoryAdapter) GetOwner() string {
	return r.repo.Owner
}

func (r *RepositoryAdapter) GetName() string {
	return r.repo.Name
}

// newMetadataService wires the aggregator and submitter shared by both commands
func newMetadataService(client *github.Client, outputs actions.OutputWriter, annotator *actions.Annotator, log *zap.Logger) *service.MetadataService {
	submitter := submit.New(
		submit.WithLogger(log),
		submit.WithAttemptHook(func(attempt, status int, err error) {
			annotator.Warning(fmt.Sprintf("Attempt %d failed with status %d. Error: %s", attempt, status, err))
		}),
	)
	return service.NewMetadataService(service.NewAggregator(client, log), submitter, outputs, log)
}

func runAction(ctx context.Context, cfg config.Config, annotator *actions.Annotator) error {
	log, err := logger.New(logger.Config{Debug: cfg.Runner.Debug, Output: "stdout"})
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	if err := cfg.Validate(); err != nil {
		return err
	}

	event, err := actions.LoadContext(cfg.Runner.EventName, cfg.Runner.EventPath, cfg.Runner.Repository)
	if err != nil {
		return err
	}
	log.Debug("Loaded event", zap.Stringer("context", event))

	client, err := github.NewClient(github.Options{Token: cfg.GithubToken, Host: cfg.Runner.APIHost()})
	if err != nil {
		return fmt.Errorf("failed to create GitHub client: %w", err)
	}

	metadataService := newMetadataService(client, actions.NewOutputWriter(cfg.Runner.OutputPath), annotator, log)
	_, err = metadataService.ProcessEvent(ctx, event, service.Destination{
		Endpoint: cfg.APIEndpoint,
		Token:    cfg.TeamPulseToken,
	})
	return err
}

func runBackfill(ctx context.Context, cfg config.Config, args []string) error {
	if err := cfg.ValidateDestination(); err != nil {
		return err
	}

	log, err := logger.New(logger.Config{Debug: cfg.Runner.Debug, Output: "stderr"})
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	// Get current repository
	repo, err := repository.Current()
	if err != nil {
		return fmt.Errorf("failed to get current repository: %w", err)
	}

	token := cfg.GithubToken
	if token == "" {
		token, _ = auth.TokenForHost(repo.Host)
	}
	if token == "" {
		return fmt.Errorf("no GitHub token for %s; run `gh auth login` or set INPUT_GITHUB_TOKEN", repo.Host)
	}

	client, err := github.NewClient(github.Options{Token: token, Host: repo.Host})
	if err != nil {
		return fmt.Errorf("failed to create GitHub client: %w", err)
	}

	annotator := actions.NewAnnotator(os.Stderr)
	metadataService := newMetadataService(client, actions.NoopOutputWriter{}, annotator, log)
	backfillService := service.NewBackfillService(client, &RepositoryAdapter{repo: &repo}, &ui.DefaultPrompter{}, metadataService, log)

	outcome, err := backfillService.ProcessBackfill(ctx, args, service.Destination{
		Endpoint: cfg.APIEndpoint,
		Token:    cfg.TeamPulseToken,
	})
	if errors.Is(err, service.ErrSubmissionCancelled) {
		fmt.Println("Submission cancelled")
		return nil
	}
	if err != nil {
		return err
	}

	if outcome.Skipped {
		fmt.Println("PR is not merged; nothing sent")
		return nil
	}
	fmt.Printf("Successfully sent PR data (status %d, %d attempt(s))\n", outcome.Status, outcome.Attempts)
	return nil
}

func newBackfillCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backfill [pr-number]",
		Short: "Send metadata for an already merged pull request",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := runBackfill(cmd.Context(), *cfg, args); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&cfg.APIEndpoint, "api-endpoint", cfg.APIEndpoint, "collector endpoint (defaults to INPUT_API_ENDPOINT)")
	cmd.Flags().StringVar(&cfg.TeamPulseToken, "teampulse-token", cfg.TeamPulseToken, "collector token (defaults to INPUT_TEAMPULSE_TOKEN)")
	return cmd
}

func main() {
	annotator := actions.NewAnnotator(os.Stdout)

	cfg, err := config.Load()
	if err != nil {
		annotator.Error(service.FailureMessage(err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := &cobra.Command{
		Use:   "pr-metadata",
		Short: "Collect merged pull request activity and send it to the analytics collector",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := runAction(cmd.Context(), cfg, annotator); err != nil {
				annotator.Error(service.FailureMessage(err))
				return err
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(newBackfillCommand(&cfg))

	if err := cmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
