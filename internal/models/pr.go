package models

import "time"

// PullRequestInfo represents a merged PR row shown by the backfill picker
type PullRequestInfo struct {
	Number   int       `json:"number"`
	Title    string    `json:"title"`
	User     string    `json:"user"`
	MergedAt time.Time `json:"merged_at"`
}

// PullRequestRef identifies a single pull request in a repository
type PullRequestRef struct {
	Owner  string
	Repo   string
	Number int
}
