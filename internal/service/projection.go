package service

import (
	"time"

	gogithub "github.com/google/go-github/v68/github"
	"github.com/ryo246912/pr-metadata-action/internal/github"
	"github.com/ryo246912/pr-metadata-action/internal/models"
)

// Projections keep only the fields the receiver consumes; everything else GitHub
// returns is dropped here.

func projectActor(u *gogithub.User) models.Actor {
	if u == nil {
		return models.Actor{}
	}
	return models.Actor{
		ID:        u.ID,
		Login:     u.Login,
		AvatarURL: u.AvatarURL,
		Type:      u.Type,
	}
}

func projectTime(ts *gogithub.Timestamp) *time.Time {
	if ts == nil {
		return nil
	}
	t := ts.Time
	return &t
}

func projectPullRequest(pr *gogithub.PullRequest) models.PullRequestSummary {
	return models.PullRequestSummary{
		ID:             pr.GetID(),
		Number:         pr.GetNumber(),
		Title:          pr.GetTitle(),
		CreatedAt:      projectTime(pr.CreatedAt),
		MergedAt:       projectTime(pr.MergedAt),
		Additions:      pr.GetAdditions(),
		Deletions:      pr.GetDeletions(),
		ChangedFiles:   pr.GetChangedFiles(),
		Comments:       pr.GetComments(),
		ReviewComments: pr.GetReviewComments(),
		User:           projectActor(pr.User),
	}
}

func projectIssueComment(c *gogithub.IssueComment) models.CommentRecord {
	return models.CommentRecord{
		ID:        c.GetID(),
		User:      projectActor(c.User),
		CreatedAt: projectTime(c.CreatedAt),
	}
}

func projectReviewComment(c *gogithub.PullRequestComment) models.CommentRecord {
	return models.CommentRecord{
		ID:        c.GetID(),
		User:      projectActor(c.User),
		CreatedAt: projectTime(c.CreatedAt),
	}
}

// projectReview falls back to counting review comments by review ID when GitHub
// does not report a count
func projectReview(r *github.Review, commentsByReview map[int64]int) models.ReviewRecord {
	comments := commentsByReview[r.GetID()]
	if r.Comments != nil {
		comments = *r.Comments
	}
	return models.ReviewRecord{
		ID:          r.GetID(),
		State:       r.GetState(),
		User:        projectActor(r.User),
		SubmittedAt: projectTime(r.SubmittedAt),
		Comments:    comments,
	}
}

func projectTimelineEvent(e *gogithub.Timeline) models.TimelineEvent {
	return models.TimelineEvent{
		Event:     e.GetEvent(),
		CreatedAt: projectTime(e.CreatedAt),
	}
}

func countByReview(comments []*gogithub.PullRequestComment) map[int64]int {
	counts := make(map[int64]int)
	for _, c := range comments {
		if id := c.GetPullRequestReviewID(); id != 0 {
			counts[id]++
		}
	}
	return counts
}
