// Package gemini implements the Classifier port by delegating intent
// extraction to the Gemini text-generation API.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/legitsystems/askari-relay/internal/domain/model"
	"github.com/legitsystems/askari-relay/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.Classifier = (*Classifier)(nil)

// DefaultAPIURL is the production generateContent endpoint.
const DefaultAPIURL = "https://generativelanguage.googleapis.com/v1beta/models/gemini-2.0-flash:generateContent"

// Classifier sends the inbound message wrapped in a fixed
// instruction-and-examples prompt and parses the single JSON object the
// model replies with. Every failure mode (transport, upstream status, empty
// candidates, unparsable reply) resolves to a nil classification so the
// caller answers with the unrecognized-input response instead of failing
// the chat request.
type Classifier struct {
	apiKey string
	apiURL string
	http   *http.Client
	now    func() time.Time
}

// NewClassifier creates a Classifier against the production endpoint.
func NewClassifier(apiKey string, timeout time.Duration) *Classifier {
	return NewClassifierWithURL(apiKey, DefaultAPIURL, timeout)
}

// NewClassifierWithURL creates a Classifier against a custom endpoint.
// Intended for tests, allowing injection of an httptest server.
func NewClassifierWithURL(apiKey, apiURL string, timeout time.Duration) *Classifier {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Classifier{
		apiKey: apiKey,
		apiURL: apiURL,
		http:   &http.Client{Timeout: timeout},
		now:    time.Now,
	}
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// nluReply is the JSON object the prompt instructs the model to emit.
type nluReply struct {
	Intent   string `json:"intent"`
	Entities struct {
		SiteName  string `json:"siteName"`
		GuardName string `json:"guardName"`
		Date      string `json:"date"`
		Timeframe string `json:"timeframe"`
	} `json:"entities"`
}

// Classify sends text to the model and maps its reply onto the shared
// intent enumeration. Returns (nil, nil) when no usable result could be
// produced.
func (c *Classifier) Classify(ctx context.Context, text string) (*model.Classification, error) {
	raw, err := c.generate(ctx, buildPrompt(text))
	if err != nil {
		slog.Warn("gemini nlu request failed", "error", err)
		return nil, nil
	}

	reply, ok := parseReply(raw)
	if !ok {
		slog.Warn("gemini nlu reply not parsable", "reply", raw)
		return nil, nil
	}

	return &model.Classification{
		Intent: mapIntent(reply.Intent),
		Entities: model.Entities{
			SiteName:  strings.TrimSpace(reply.Entities.SiteName),
			GuardName: strings.TrimSpace(reply.Entities.GuardName),
			Date:      c.normalizeDate(reply.Entities.Date),
			Timeframe: reply.Entities.Timeframe,
		},
	}, nil
}

func (c *Classifier) generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+"?key="+c.apiKey, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini error: status %d", resp.StatusCode)
	}

	var payload generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	if len(payload.Candidates) == 0 || len(payload.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response from gemini")
	}
	return payload.Candidates[0].Content.Parts[0].Text, nil
}

// parseReply strips any fenced-code-block markers the model wrapped around
// its JSON and unmarshals the remainder.
func parseReply(raw string) (nluReply, bool) {
	cleaned := strings.ReplaceAll(raw, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	cleaned = strings.TrimSpace(cleaned)

	var reply nluReply
	if err := json.Unmarshal([]byte(cleaned), &reply); err != nil {
		return nluReply{}, false
	}
	if reply.Intent == "" {
		return nluReply{}, false
	}
	return reply, true
}

// mapIntent translates the prompt's intent vocabulary onto the shared
// enumeration. Unknown names degrade to IntentUnknown.
func mapIntent(name string) model.Intent {
	switch name {
	case "getPatrolReports":
		return model.IntentPatrolReport
	case "getSiteInfo":
		return model.IntentSiteInfo
	case "getGuardInfo":
		return model.IntentGuardInfo
	case "getSitePerformance":
		return model.IntentSitePerformance
	case "getAllSites":
		return model.IntentListSites
	case "getSystemStats":
		return model.IntentSystemStats
	case "getGuardsForSite":
		return model.IntentGuardsForSite
	default:
		return model.IntentUnknown
	}
}

// normalizeDate resolves the relative day references the model tends to
// echo back ("yesterday", "today") into concrete YYYY-MM-DD dates; anything
// else passes through unchanged.
func (c *Classifier) normalizeDate(date string) string {
	switch strings.ToLower(strings.TrimSpace(date)) {
	case "yesterday":
		return c.now().AddDate(0, 0, -1).Format("2006-01-02")
	case "today":
		return c.now().Format("2006-01-02")
	default:
		return strings.TrimSpace(date)
	}
}
