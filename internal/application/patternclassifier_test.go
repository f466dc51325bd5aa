package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/legitsystems/askari-relay/internal/domain/model"
)

var classifierNow = time.Date(2025, 11, 5, 12, 0, 0, 0, time.UTC)

func newTestClassifier() *PatternClassifier {
	c := NewPatternClassifier()
	c.now = func() time.Time { return classifierNow }
	return c
}

func TestPatternClassifier_Intents(t *testing.T) {
	tests := []struct {
		text string
		want model.Intent
	}{
		{"show me the patrol report for the main gate", model.IntentPatrolReport},
		{"get patrol report for Atom", model.IntentPatrolReport},
		{"latest patrol at Sheraton", model.IntentPatrolReport},
		{"site info for Atom", model.IntentSiteInfo},
		{"tell me about site Atom", model.IntentSiteInfo},
		{"guard info for John", model.IntentGuardInfo},
		{"tell me about guard Mary Achieng", model.IntentGuardInfo},
		{"performance for Sheraton Hotel", model.IntentSitePerformance},
		{"system stats", model.IntentSystemStats},
		{"dashboard", model.IntentSystemStats},
		{"overview", model.IntentSystemStats},
		{"list all sites", model.IntentListSites},
		{"what sites do we have", model.IntentListSites},
		{"help", model.IntentHelp},
		{"what can you do", model.IntentHelp},
		{"good morning", model.IntentUnknown},
		{"", model.IntentUnknown},
	}

	c := newTestClassifier()
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, err := c.Classify(context.Background(), tt.text)
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.Intent)
		})
	}
}

// Input case does not affect intent matching.
func TestPatternClassifier_CaseInsensitive(t *testing.T) {
	c := newTestClassifier()

	got, err := c.Classify(context.Background(), "SHOW ME THE PATROL REPORT FOR ATOM")
	require.NoError(t, err)
	assert.Equal(t, model.IntentPatrolReport, got.Intent)
	assert.Equal(t, "ATOM", got.Entities.SiteName)
}

func TestPatternClassifier_SiteEntity(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"show me the patrol report for the main gate", "the main gate"},
		{"site info for Atom", "Atom"},
		{"performance for Sheraton Hotel (Kampala)", "Sheraton Hotel (Kampala)"},
		{"list all sites", ""},
	}

	c := newTestClassifier()
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, err := c.Classify(context.Background(), tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Entities.SiteName)
		})
	}
}

func TestPatternClassifier_GuardEntity(t *testing.T) {
	c := newTestClassifier()

	got, err := c.Classify(context.Background(), "tell me about guard Mary Achieng")
	require.NoError(t, err)
	assert.Equal(t, model.IntentGuardInfo, got.Intent)
	assert.Equal(t, "Mary Achieng", got.Entities.GuardName)
}

func TestPatternClassifier_RelativeDates(t *testing.T) {
	c := newTestClassifier()
	ctx := context.Background()

	got, err := c.Classify(ctx, "patrol report for Atom yesterday")
	require.NoError(t, err)
	assert.Equal(t, "yesterday", got.Entities.Timeframe)
	assert.Equal(t, "2025-11-04", got.Entities.Date)

	got, err = c.Classify(ctx, "patrol report for Atom today")
	require.NoError(t, err)
	assert.Equal(t, "today", got.Entities.Timeframe)
	assert.Equal(t, "2025-11-05", got.Entities.Date)

	got, err = c.Classify(ctx, "performance for Atom this week")
	require.NoError(t, err)
	assert.Equal(t, "this_week", got.Entities.Timeframe)
	assert.Equal(t, "", got.Entities.Date)
}
