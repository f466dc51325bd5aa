package httphandler

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/legitsystems/askari-relay/internal/application"
	"github.com/legitsystems/askari-relay/internal/domain/model"
	"github.com/legitsystems/askari-relay/internal/domain/port/driven"
)

// mockGuardTourClient implements the GuardTourClient port with per-method
// function fields. Unset methods return zero values.
type mockGuardTourClient struct {
	listSites   func(ctx context.Context) ([]model.Site, error)
	getSite     func(ctx context.Context, id int64) (*model.Site, error)
	listPatrols func(ctx context.Context, siteID int64, since *time.Time) ([]model.Patrol, error)
	stats       func(ctx context.Context) (*model.SystemStats, error)
	ping        func(ctx context.Context) error
}

var _ driven.GuardTourClient = (*mockGuardTourClient)(nil)

func (m *mockGuardTourClient) ListSites(ctx context.Context) ([]model.Site, error) {
	if m.listSites == nil {
		return nil, nil
	}
	return m.listSites(ctx)
}

func (m *mockGuardTourClient) GetSite(ctx context.Context, id int64) (*model.Site, error) {
	if m.getSite == nil {
		return nil, nil
	}
	return m.getSite(ctx, id)
}

func (m *mockGuardTourClient) ListPatrols(ctx context.Context, siteID int64, since *time.Time) ([]model.Patrol, error) {
	if m.listPatrols == nil {
		return nil, nil
	}
	return m.listPatrols(ctx, siteID, since)
}

func (m *mockGuardTourClient) DayPerformance(context.Context, int64, int, int, int) (*model.Performance, error) {
	return nil, nil
}

func (m *mockGuardTourClient) MonthPerformance(context.Context, int64, int, int) (*model.Performance, error) {
	return nil, nil
}

func (m *mockGuardTourClient) ListGuards(context.Context, string, int) ([]model.Guard, error) {
	return nil, nil
}

func (m *mockGuardTourClient) Stats(ctx context.Context) (*model.SystemStats, error) {
	if m.stats == nil {
		return nil, nil
	}
	return m.stats(ctx)
}

func (m *mockGuardTourClient) Ping(ctx context.Context) error {
	if m.ping == nil {
		return nil
	}
	return m.ping(ctx)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServer(client driven.GuardTourClient) http.Handler {
	logger := discardLogger()
	reports := application.NewReportService(client, logger)
	messages := application.NewMessageService(application.NewPatternClassifier(), reports, logger)
	return NewServeMux(NewHandler(messages, reports, logger), logger)
}

// replyMessage unwraps the single message from a webhook response envelope.
func replyMessage(t *testing.T, body []byte) string {
	t.Helper()
	var envelope messagingResponse
	require.NoError(t, xml.Unmarshal(body, &envelope))
	return envelope.Message
}

func postForm(handler http.Handler, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestWebhook_FormPayload(t *testing.T) {
	client := &mockGuardTourClient{
		listSites: func(context.Context) ([]model.Site, error) {
			return []model.Site{{ID: 3, Name: "Atom"}}, nil
		},
		getSite: func(_ context.Context, id int64) (*model.Site, error) {
			assert.Equal(t, int64(3), id)
			return &model.Site{ID: 3, Name: "Atom", Address: "Plot 4, Kampala", Status: "active"}, nil
		},
	}
	handler := newTestServer(client)

	rec := postForm(handler, url.Values{
		"Body": {"site info for Atom"},
		"From": {"whatsapp:+256700000001"},
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/xml", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), xml.Header))

	msg := replyMessage(t, rec.Body.Bytes())
	assert.Contains(t, msg, "*Site Information*")
	assert.Contains(t, msg, "*Name:* Atom")
	assert.Contains(t, msg, "*Location:* Plot 4, Kampala")
}

func TestWebhook_JSONPayload(t *testing.T) {
	client := &mockGuardTourClient{
		listSites: func(context.Context) ([]model.Site, error) {
			return []model.Site{{ID: 3, Name: "Atom", Status: "active"}}, nil
		},
	}
	handler := newTestServer(client)

	payload, err := json.Marshal(map[string]string{
		"body": "list all sites",
		"from": "whatsapp:+256700000001",
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(string(payload)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	msg := replyMessage(t, rec.Body.Bytes())
	assert.Contains(t, msg, "*All Sites:*")
	assert.Contains(t, msg, "1. Atom (active)")
}

func TestWebhook_SiteNotFound(t *testing.T) {
	client := &mockGuardTourClient{
		listSites: func(context.Context) ([]model.Site, error) {
			return []model.Site{{ID: 3, Name: "Atom"}}, nil
		},
	}
	handler := newTestServer(client)

	rec := postForm(handler, url.Values{"Body": {"site info for Nowhere"}})

	assert.Equal(t, http.StatusOK, rec.Code)
	msg := replyMessage(t, rec.Body.Bytes())
	assert.Equal(t, `Site "Nowhere" not found. Please check the site name and try again.`, msg)
}

// "about" phrasing captures everything trailing it, so the word "site"
// becomes part of the looked-up name and only a literal match answers.
func TestWebhook_AboutPhrasing(t *testing.T) {
	client := &mockGuardTourClient{
		listSites: func(context.Context) ([]model.Site, error) {
			return []model.Site{{ID: 3, Name: "site Atom"}}, nil
		},
		getSite: func(_ context.Context, id int64) (*model.Site, error) {
			return &model.Site{ID: 3, Name: "site Atom", Status: "active"}, nil
		},
	}
	handler := newTestServer(client)

	rec := postForm(handler, url.Values{"Body": {"tell me about site Atom"}})

	msg := replyMessage(t, rec.Body.Bytes())
	assert.Contains(t, msg, "*Site Information*")
	assert.Contains(t, msg, "*Name:* site Atom")

	// Against a site actually named "Atom" the same phrasing misses.
	client.listSites = func(context.Context) ([]model.Site, error) {
		return []model.Site{{ID: 3, Name: "Atom"}}, nil
	}
	rec = postForm(handler, url.Values{"Body": {"tell me about site Atom"}})
	msg = replyMessage(t, rec.Body.Bytes())
	assert.Equal(t, `Site "site Atom" not found. Please check the site name and try again.`, msg)
}

// Upstream failures still produce a 200 with a fixed apology message.
func TestWebhook_UpstreamFailure(t *testing.T) {
	client := &mockGuardTourClient{
		listSites: func(context.Context) ([]model.Site, error) {
			return []model.Site{{ID: 3, Name: "Atom"}}, nil
		},
		listPatrols: func(context.Context, int64, *time.Time) ([]model.Patrol, error) {
			return nil, errors.New("connection reset")
		},
	}
	handler := newTestServer(client)

	rec := postForm(handler, url.Values{"Body": {"show patrol report for Atom"}})

	assert.Equal(t, http.StatusOK, rec.Code)
	msg := replyMessage(t, rec.Body.Bytes())
	assert.Contains(t, msg, "Sorry, I couldn't fetch the patrol report for Atom.")
	assert.NotContains(t, msg, "connection reset")
}

func TestWebhook_UnknownMessage(t *testing.T) {
	handler := newTestServer(&mockGuardTourClient{})

	rec := postForm(handler, url.Values{"Body": {"good morning"}})

	assert.Equal(t, http.StatusOK, rec.Code)
	msg := replyMessage(t, rec.Body.Bytes())
	assert.Contains(t, msg, "Type \"help\"")
}

func TestWebhook_Help(t *testing.T) {
	handler := newTestServer(&mockGuardTourClient{})

	rec := postForm(handler, url.Values{"Body": {"help"}})

	msg := replyMessage(t, rec.Body.Bytes())
	assert.Contains(t, msg, "*Askari WhatsApp Assistant*")
	assert.Contains(t, msg, "*Patrol Reports*")
}

func TestWebhook_BadJSONPayload(t *testing.T) {
	handler := newTestServer(&mockGuardTourClient{})

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	msg := replyMessage(t, rec.Body.Bytes())
	assert.Equal(t, "Sorry, I encountered an error. Please try again.", msg)
}

func TestWebhook_RequestIDHeader(t *testing.T) {
	handler := newTestServer(&mockGuardTourClient{})

	rec := postForm(handler, url.Values{"Body": {"help"}})

	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestHealth(t *testing.T) {
	handler := newTestServer(&mockGuardTourClient{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var payload HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, "healthy", payload.Status)
	assert.Equal(t, "Askari WhatsApp Integration", payload.Service)
	assert.NotEmpty(t, payload.Timestamp)
}

func TestTestAPI_Success(t *testing.T) {
	handler := newTestServer(&mockGuardTourClient{})

	req := httptest.NewRequest(http.MethodGet, "/test-api", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var status application.ConnectionStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.True(t, status.Success)
	assert.Equal(t, "API connection successful", status.Message)
}

func TestTestAPI_Failure(t *testing.T) {
	handler := newTestServer(&mockGuardTourClient{
		ping: func(context.Context) error { return errors.New("boom") },
	})

	req := httptest.NewRequest(http.MethodGet, "/test-api", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)

	var status application.ConnectionStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.False(t, status.Success)
	assert.Equal(t, "API connection failed", status.Message)
}

func TestRouting_MethodNotAllowed(t *testing.T) {
	handler := newTestServer(&mockGuardTourClient{})

	req := httptest.NewRequest(http.MethodGet, "/webhook", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
