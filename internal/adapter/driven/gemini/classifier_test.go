package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/legitsystems/askari-relay/internal/domain/model"
)

var fixedNow = time.Date(2025, 11, 5, 12, 0, 0, 0, time.UTC)

// modelServer returns an httptest server that replies with the given text as
// the single candidate part, the way the generateContent endpoint does.
func modelServer(t *testing.T, replyText string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))

		var req generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Contents, 1)
		require.Len(t, req.Contents[0].Parts, 1)
		assert.Contains(t, req.Contents[0].Parts[0].Text, "Now, analyze:")

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"candidates":[{"content":{"parts":[{"text":%q}]}}]}`, replyText)
	}))
}

func newTestClassifier(t *testing.T, srv *httptest.Server) *Classifier {
	t.Helper()
	c := NewClassifierWithURL("test-key", srv.URL, time.Second)
	c.now = func() time.Time { return fixedNow }
	return c
}

func TestClassifier_Classify(t *testing.T) {
	srv := modelServer(t, `{"intent":"getPatrolReports","entities":{"siteName":"Main Gate","date":"2025-11-04"}}`)
	defer srv.Close()

	c := newTestClassifier(t, srv)

	got, err := c.Classify(context.Background(), "show me the patrol report for the main gate from yesterday")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, model.IntentPatrolReport, got.Intent)
	assert.Equal(t, "Main Gate", got.Entities.SiteName)
	assert.Equal(t, "2025-11-04", got.Entities.Date)
}

// Models habitually wrap their JSON in a fenced code block.
func TestClassifier_FencedReply(t *testing.T) {
	srv := modelServer(t, "```json\n{\"intent\":\"getAllSites\",\"entities\":{}}\n```")
	defer srv.Close()

	c := newTestClassifier(t, srv)

	got, err := c.Classify(context.Background(), "list all sites")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, model.IntentListSites, got.Intent)
}

func TestClassifier_RelativeDates(t *testing.T) {
	tests := []struct {
		date string
		want string
	}{
		{"yesterday", "2025-11-04"},
		{"today", "2025-11-05"},
		{"Yesterday", "2025-11-04"},
		{"2025-10-01", "2025-10-01"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			srv := modelServer(t, fmt.Sprintf(`{"intent":"getPatrolReports","entities":{"siteName":"Atom","date":%q}}`, tt.date))
			defer srv.Close()

			c := newTestClassifier(t, srv)

			got, err := c.Classify(context.Background(), "patrol report")
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.Entities.Date)
		})
	}
}

func TestClassifier_IntentMapping(t *testing.T) {
	tests := []struct {
		name string
		want model.Intent
	}{
		{"getPatrolReports", model.IntentPatrolReport},
		{"getSiteInfo", model.IntentSiteInfo},
		{"getGuardInfo", model.IntentGuardInfo},
		{"getGuardsForSite", model.IntentGuardsForSite},
		{"getSitePerformance", model.IntentSitePerformance},
		{"getAllSites", model.IntentListSites},
		{"getSystemStats", model.IntentSystemStats},
		{"somethingNovel", model.IntentUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, mapIntent(tt.name))
		})
	}
}

// Unusable model replies degrade to a nil classification, never an error.
func TestClassifier_UnparsableReply(t *testing.T) {
	srv := modelServer(t, "I'm sorry, I can't help with that.")
	defer srv.Close()

	c := newTestClassifier(t, srv)

	got, err := c.Classify(context.Background(), "patrol report for Atom")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestClassifier_UpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := newTestClassifier(t, srv)

	got, err := c.Classify(context.Background(), "patrol report for Atom")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestClassifier_EmptyCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	}))
	defer srv.Close()

	c := newTestClassifier(t, srv)

	got, err := c.Classify(context.Background(), "patrol report for Atom")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestParseReply_MissingIntent(t *testing.T) {
	_, ok := parseReply(`{"entities":{"siteName":"Atom"}}`)
	assert.False(t, ok)
}
