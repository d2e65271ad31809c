package ui

import (
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/ryo246912/pr-metadata-action/internal/models"
)

// FormatPR renders one picker row
func FormatPR(pr models.PullRequestInfo) string {
	merged := ""
	if !pr.MergedAt.IsZero() {
		merged = pr.MergedAt.Format("2006-01-02 15:04")
	}
	return fmt.Sprintf(
		"#%s %s %s %s",
		PadRight(fmt.Sprintf("%-6d", pr.Number), 7),
		PadRight(Truncate(pr.Title, 75), 75),
		PadRight(pr.User, 15),
		PadRight(merged, 16),
	)
}

func SelectPR(prs []models.PullRequestInfo) (int, error) {
	if len(prs) == 0 {
		return 0, fmt.Errorf("no merged pull requests found")
	}

	items := make([]string, len(prs))
	for i, pr := range prs {
		items[i] = FormatPR(pr)
	}

	prompt := promptui.Select{
		Label: "Select merged PR",
		Items: items,
		Size:  12,
		Searcher: func(input string, index int) bool {
			return strings.Contains(strings.ToLower(items[index]), strings.ToLower(input))
		},
		StartInSearchMode: true,
	}

	idx, _, err := prompt.Run()
	if err != nil {
		return 0, fmt.Errorf("prompt failed: %w", err)
	}
	return prs[idx].Number, nil
}

// ConfirmSubmission asks for user confirmation before sending
func ConfirmSubmission(number int, title string) (bool, error) {
	prompt := promptui.Prompt{
		Label:     fmt.Sprintf("Send metadata for #%d %s", number, Truncate(title, 60)),
		IsConfirm: true,
	}

	_, err := prompt.Run()
	switch {
	case err == nil:
		return true, nil
	case err == promptui.ErrAbort:
		return false, nil
	default:
		return false, fmt.Errorf("failed to read confirmation: %w", err)
	}
}
