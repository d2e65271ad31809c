package github

import (
	"context"
	"fmt"
	"iter"
	"time"

	gogithub "github.com/google/go-github/v68/github"
	"github.com/ryo246912/pr-metadata-action/internal/models"
)

// MockClient implements GitHubClient for testing.
// Each stream is a list of pages; an error in the matching *Error field is yielded
// after the pages have been served.
type MockClient struct {
	// Control test behavior
	PullRequest        *gogithub.PullRequest
	PullRequestError   error
	IssueCommentPages  [][]*gogithub.IssueComment
	IssueCommentError  error
	ReviewPages        [][]*Review
	ReviewError        error
	ReviewCommentPages [][]*gogithub.PullRequestComment
	ReviewCommentError error
	TimelinePages      [][]*gogithub.Timeline
	TimelineError      error
	MergedPRs          []models.PullRequestInfo
	MergedPRsError     error

	// Track calls; Requests counts every simulated network round trip
	Requests              int
	GetPullRequestCalled  bool
	SearchMergedPRsCalled bool

	// Store call arguments for verification
	LastRef   models.PullRequestRef
	LastOwner string
	LastRepo  string
}

// GetPullRequest mocks the point lookup
func (m *MockClient) GetPullRequest(ctx context.Context, ref models.PullRequestRef) (*gogithub.PullRequest, error) {
	m.GetPullRequestCalled = true
	m.Requests++
	m.LastRef = ref
	return m.PullRequest, m.PullRequestError
}

// IssueComments mocks the paginated issue comments endpoint
func (m *MockClient) IssueComments(ctx context.Context, ref models.PullRequestRef) iter.Seq2[*gogithub.IssueComment, error] {
	return mockPages(m, m.IssueCommentPages, m.IssueCommentError)
}

// Reviews mocks the paginated reviews endpoint
func (m *MockClient) Reviews(ctx context.Context, ref models.PullRequestRef) iter.Seq2[*Review, error] {
	return mockPages(m, m.ReviewPages, m.ReviewError)
}

// ReviewComments mocks the paginated review comments endpoint
func (m *MockClient) ReviewComments(ctx context.Context, ref models.PullRequestRef) iter.Seq2[*gogithub.PullRequestComment, error] {
	return mockPages(m, m.ReviewCommentPages, m.ReviewCommentError)
}

// Timeline mocks the paginated timeline endpoint
func (m *MockClient) Timeline(ctx context.Context, ref models.PullRequestRef) iter.Seq2[*gogithub.Timeline, error] {
	return mockPages(m, m.TimelinePages, m.TimelineError)
}

// SearchMergedPRs mocks the GraphQL search
func (m *MockClient) SearchMergedPRs(ctx context.Context, owner, repo string) ([]models.PullRequestInfo, error) {
	m.SearchMergedPRsCalled = true
	m.Requests++
	m.LastOwner = owner
	m.LastRepo = repo
	return m.MergedPRs, m.MergedPRsError
}

func mockPages[T any](m *MockClient, pages [][]T, err error) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		var zero T
		for _, page := range pages {
			m.Requests++
			for _, item := range page {
				if !yield(item, nil) {
					return
				}
			}
		}
		if err != nil {
			m.Requests++
			yield(zero, err)
		}
	}
}

// Reset clears all tracking data for fresh test
func (m *MockClient) Reset() {
	m.Requests = 0
	m.GetPullRequestCalled = false
	m.SearchMergedPRsCalled = false
	m.LastRef = models.PullRequestRef{}
	m.LastOwner = ""
	m.LastRepo = ""
}

// MockRepository implements repository information for testing
type MockRepository struct {
	Owner string
	Name  string
}

func (m *MockRepository) GetOwner() string {
	return m.Owner
}

func (m *MockRepository) GetName() string {
	return m.Name
}

// Helper functions for creating test data

// CreateTestPullRequest returns a merged PR authored by user1
func CreateTestPullRequest(number int) *gogithub.PullRequest {
	created := gogithub.Timestamp{Time: time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)}
	merged := gogithub.Timestamp{Time: time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC)}
	return &gogithub.PullRequest{
		ID:             gogithub.Ptr(int64(1000 + number)),
		Number:         gogithub.Ptr(number),
		Title:          gogithub.Ptr(fmt.Sprintf("Test PR #%d", number)),
		State:          gogithub.Ptr("closed"),
		Body:           gogithub.Ptr("not forwarded"),
		Merged:         gogithub.Ptr(true),
		CreatedAt:      &created,
		MergedAt:       &merged,
		Additions:      gogithub.Ptr(10),
		Deletions:      gogithub.Ptr(2),
		ChangedFiles:   gogithub.Ptr(3),
		Comments:       gogithub.Ptr(1),
		ReviewComments: gogithub.Ptr(2),
		User:           CreateTestUser(1),
	}
}

// CreateTestUser returns a regular user with predictable fields
func CreateTestUser(id int64) *gogithub.User {
	return &gogithub.User{
		ID:        gogithub.Ptr(id),
		Login:     gogithub.Ptr(fmt.Sprintf("user%d", id)),
		AvatarURL: gogithub.Ptr(fmt.Sprintf("https://avatars.example.com/u/%d", id)),
		Type:      gogithub.Ptr("User"),
		Email:     gogithub.Ptr("not-forwarded@example.com"),
	}
}

// CreateTestMergedPRs returns count merged PR rows for the picker
func CreateTestMergedPRs(count int) []models.PullRequestInfo {
	prs := make([]models.PullRequestInfo, count)
	for i := 0; i < count; i++ {
		prs[i] = models.PullRequestInfo{
			Number:   i + 1,
			Title:    fmt.Sprintf("Test PR #%d", i+1),
			User:     fmt.Sprintf("user%d", i+1),
			MergedAt: time.Date(2023, 1, 1, 12, 0, 0, 0, time.UTC),
		}
	}
	return prs
}

// Error helpers for testing error conditions
func NewAPIError(message string) error {
	return fmt.Errorf("API error: %s", message)
}

func NewNetworkError() error {
	return fmt.Errorf("network connection failed")
}
