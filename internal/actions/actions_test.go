package actions

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeEvent(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "event.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadContext(t *testing.T) {
	tests := []struct {
		name       string
		eventName  string
		body       string
		noFile     bool
		repository string
		wantPR     bool
		wantMerged bool
		wantOwner  string
		wantRepo   string
	}{
		{
			name:       "merged pull request",
			eventName:  "pull_request",
			body:       `{"action":"closed","number":7,"pull_request":{"number":7,"merged":true}}`,
			repository: "octo/hello",
			wantPR:     true,
			wantMerged: true,
			wantOwner:  "octo",
			wantRepo:   "hello",
		},
		{
			name:       "closed without merge",
			eventName:  "pull_request",
			body:       `{"action":"closed","pull_request":{"number":8,"merged":false}}`,
			repository: "octo/hello",
			wantPR:     true,
			wantOwner:  "octo",
			wantRepo:   "hello",
		},
		{
			name:       "push event has no pull request",
			eventName:  "push",
			body:       `{"ref":"refs/heads/main"}`,
			repository: "octo/hello",
			wantOwner:  "octo",
			wantRepo:   "hello",
		},
		{
			name:      "missing event file",
			eventName: "workflow_dispatch",
			noFile:    true,
		},
		{
			name:       "repository falls back to payload",
			eventName:  "pull_request",
			body:       `{"pull_request":{"number":1,"merged":true},"repository":{"name":"hello","owner":{"login":"octo"}}}`,
			wantPR:     true,
			wantMerged: true,
			wantOwner:  "octo",
			wantRepo:   "hello",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "missing.json")
			if !tt.noFile {
				path = writeEvent(t, tt.body)
			}

			ctx, err := LoadContext(tt.eventName, path, tt.repository)
			require.NoError(t, err)

			pr, ok := ctx.PullRequest()
			assert.Equal(t, tt.wantPR, ok)
			if ok {
				assert.Equal(t, tt.wantMerged, pr.GetMerged())
			}
			assert.Equal(t, tt.wantOwner, ctx.Owner)
			assert.Equal(t, tt.wantRepo, ctx.Repo)
		})
	}
}

func TestLoadContext_InvalidPayload(t *testing.T) {
	_, err := LoadContext("pull_request", writeEvent(t, "{not json"), "octo/hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode event payload")
}

func TestFileOutputWriter_SetOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "output")
	w := NewOutputWriter(path)

	require.NoError(t, w.SetOutput("http_status", "200"))
	require.NoError(t, w.SetOutput("summary", "line one\nEOF inside\nline three"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t,
		"http_status=200\nsummary<<EOF_\nline one\nEOF inside\nline three\nEOF_\n",
		string(data))
}

func TestNewOutputWriter_EmptyPathIsNoop(t *testing.T) {
	w := NewOutputWriter("")
	assert.IsType(t, NoopOutputWriter{}, w)
	assert.NoError(t, w.SetOutput("http_status", "0"))
}

func TestAnnotator(t *testing.T) {
	var buf bytes.Buffer
	a := NewAnnotator(&buf)

	a.Warning("Attempt 1 failed with status 503")
	a.Error("100% broken\nsecond line")

	assert.Equal(t,
		"::warning::Attempt 1 failed with status 503\n::error::100%25 broken%0Asecond line\n",
		buf.String())
}
