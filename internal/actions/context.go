// Package actions reads the GitHub Actions runner context and speaks the runner's
// output and workflow command conventions.
package actions

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	gogithub "github.com/google/go-github/v68/github"
)

// Context is the event that triggered the workflow run
type Context struct {
	EventName string
	Owner     string
	Repo      string
	// Event is the decoded webhook payload; PullRequest is nil for non-PR events.
	Event *gogithub.PullRequestEvent
}

// LoadContext decodes the event payload at eventPath. A missing path or file yields an
// empty payload, the same way the runner toolkit treats it.
// repository is the owner/name pair from GITHUB_REPOSITORY.
func LoadContext(eventName, eventPath, repository string) (*Context, error) {
	ctx := &Context{
		EventName: eventName,
		Event:     &gogithub.PullRequestEvent{},
	}

	if eventPath != "" {
		data, err := os.ReadFile(eventPath)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read event payload: %w", err)
		default:
			if err := json.Unmarshal(data, ctx.Event); err != nil {
				return nil, fmt.Errorf("failed to decode event payload: %w", err)
			}
		}
	}

	if owner, repo, ok := strings.Cut(repository, "/"); ok {
		ctx.Owner, ctx.Repo = owner, repo
	} else if r := ctx.Event.GetRepo(); r != nil {
		ctx.Owner, ctx.Repo = r.GetOwner().GetLogin(), r.GetName()
	}

	return ctx, nil
}

// PullRequest returns the pull request the event refers to, if any
func (c *Context) PullRequest() (*gogithub.PullRequest, bool) {
	if c == nil || c.Event == nil || c.Event.PullRequest == nil {
		return nil, false
	}
	return c.Event.PullRequest, true
}

func (c *Context) String() string {
	return fmt.Sprintf("event=%s repo=%s/%s", c.EventName, c.Owner, c.Repo)
}
