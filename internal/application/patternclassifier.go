package application

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/legitsystems/askari-relay/internal/domain/model"
	"github.com/legitsystems/askari-relay/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.Classifier = (*PatternClassifier)(nil)

// intentTable maps each intent to its recognition patterns. Table order is
// significant: tables are scanned top to bottom and the first matching
// pattern wins, so broader patterns (list_sites, help) sit below the
// entity-bearing ones.
var intentTable = []struct {
	intent   model.Intent
	patterns []*regexp.Regexp
}{
	{model.IntentPatrolReport, compileAll(
		`show.*patrol report.*for (.*)`,
		`get patrol report.*for (.*)`,
		`patrol.*report.*(.*)`,
		`patrol.*status.*(.*)`,
		`check patrol.*(.*)`,
		`latest patrol.*(.*)`,
		`patrols.*for (.*)`,
	)},
	{model.IntentSiteInfo, compileAll(
		`site.*info.*for (.*)`,
		`tell me about site (.*)`,
		`site.*details.*(.*)`,
		`info.*site (.*)`,
		`about site (.*)`,
		`site (.*) info`,
	)},
	{model.IntentGuardInfo, compileAll(
		`guard.*info.*for (.*)`,
		`tell me about guard (.*)`,
		`guard.*details.*(.*)`,
		`info.*guard (.*)`,
		`about guard (.*)`,
		`guard (.*) info`,
	)},
	{model.IntentSitePerformance, compileAll(
		`performance.*for (.*)`,
		`site.*performance.*(.*)`,
		`how.*doing.*(.*)`,
		`performance.*report.*(.*)`,
		`site.*stats.*(.*)`,
	)},
	{model.IntentSystemStats, compileAll(
		`system.*stats`,
		`overall.*stats`,
		`system.*status`,
		`dashboard`,
		`overview`,
		`stats`,
	)},
	{model.IntentListSites, compileAll(
		`list.*sites`,
		`show.*all.*sites`,
		`what.*sites`,
		`sites.*list`,
		`all.*sites`,
	)},
	{model.IntentHelp, compileAll(
		`help`,
		`what.*can.*do`,
		`commands`,
		`how.*use`,
	)},
}

var (
	// Site names trail the message after "for", "about", or "of".
	siteEntityRe = regexp.MustCompile(`(?i)(?:for|about|of)\s+([A-Za-z0-9\s\-()]+)$`)
	// Guard names follow the literal word "guard".
	guardEntityRe = regexp.MustCompile(`(?i)guard\s+([A-Za-z\s]+)`)
)

func compileAll(exprs ...string) []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, 0, len(exprs))
	for _, expr := range exprs {
		patterns = append(patterns, regexp.MustCompile(`(?i)`+expr))
	}
	return patterns
}

// PatternClassifier classifies messages with the ordered regex tables and
// extracts entities independently of the matched intent. It needs no
// network access and never returns a nil classification; inputs matching no
// pattern come back as IntentUnknown.
type PatternClassifier struct {
	now func() time.Time
}

// NewPatternClassifier creates a classifier using the system clock for
// relative-date resolution.
func NewPatternClassifier() *PatternClassifier {
	return &PatternClassifier{now: time.Now}
}

// Classify matches text against the intent tables and extracts entities.
func (c *PatternClassifier) Classify(_ context.Context, text string) (*model.Classification, error) {
	normalized := strings.ToLower(strings.TrimSpace(text))

	intent := model.IntentUnknown
	for _, entry := range intentTable {
		if matchesAny(entry.patterns, normalized) {
			intent = entry.intent
			break
		}
	}

	return &model.Classification{
		Intent:   intent,
		Entities: c.extractEntities(text),
	}, nil
}

func matchesAny(patterns []*regexp.Regexp, text string) bool {
	for _, p := range patterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}

// extractEntities pulls named values out of the raw message. Extraction is
// deliberately independent of which intent matched: a site name is whatever
// trails "for"/"about"/"of" at the end of the message, a guard name
// whatever follows "guard", and relative day references become concrete
// dates in YYYY-MM-DD form.
func (c *PatternClassifier) extractEntities(text string) model.Entities {
	var entities model.Entities

	if m := siteEntityRe.FindStringSubmatch(text); m != nil {
		entities.SiteName = strings.TrimSpace(m[1])
	}
	if m := guardEntityRe.FindStringSubmatch(text); m != nil {
		entities.GuardName = strings.TrimSpace(m[1])
	}

	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "yesterday"):
		entities.Timeframe = "yesterday"
		entities.Date = c.now().AddDate(0, 0, -1).Format("2006-01-02")
	case strings.Contains(lower, "today"):
		entities.Timeframe = "today"
		entities.Date = c.now().Format("2006-01-02")
	case strings.Contains(lower, "this week"):
		entities.Timeframe = "this_week"
	}

	return entities
}
