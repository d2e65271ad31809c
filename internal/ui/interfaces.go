package ui

import "github.com/ryo246912/pr-metadata-action/internal/models"

// Prompter defines interface for user interaction
type Prompter interface {
	SelectPR(prs []models.PullRequestInfo) (int, error)
	ConfirmSubmission(number int, title string) (bool, error)
}

// DefaultPrompter implements the actual prompting logic
type DefaultPrompter struct{}

// SelectPR prompts user to select a merged PR
func (p *DefaultPrompter) SelectPR(prs []models.PullRequestInfo) (int, error) {
	return SelectPR(prs)
}

// ConfirmSubmission prompts user to confirm sending the PR data
func (p *DefaultPrompter) ConfirmSubmission(number int, title string) (bool, error) {
	return ConfirmSubmission(number, title)
}

// MockPrompter for testing
type MockPrompter struct {
	SelectedPRNumber int
	PRSelectionError error

	Confirmed         bool
	ConfirmationError error

	// Call tracking
	SelectPRCalled          bool
	ConfirmSubmissionCalled bool
	LastPRs                 []models.PullRequestInfo
}

// SelectPR mocks PR selection
func (m *MockPrompter) SelectPR(prs []models.PullRequestInfo) (int, error) {
	m.SelectPRCalled = true
	m.LastPRs = prs
	return m.SelectedPRNumber, m.PRSelectionError
}

// ConfirmSubmission mocks confirmation
func (m *MockPrompter) ConfirmSubmission(number int, title string) (bool, error) {
	m.ConfirmSubmissionCalled = true
	return m.Confirmed, m.ConfirmationError
}
