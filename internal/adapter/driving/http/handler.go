// Package httphandler is the HTTP driving adapter: the messaging-gateway
// webhook, the health endpoint, and the upstream connectivity probe.
package httphandler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/legitsystems/askari-relay/internal/application"
)

// Handler serves the webhook and operational endpoints.
type Handler struct {
	messages *application.MessageService
	reports  *application.ReportService
	logger   *slog.Logger
}

// NewHandler creates a Handler with all required dependencies.
func NewHandler(messages *application.MessageService, reports *application.ReportService, logger *slog.Logger) *Handler {
	return &Handler{
		messages: messages,
		reports:  reports,
		logger:   logger,
	}
}

// NewServeMux creates an http.Handler with all routes registered and
// wrapped with request-id, logging, and recovery middleware.
func NewServeMux(h *Handler, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /webhook", h.Webhook)
	mux.HandleFunc("GET /health", h.Health)
	mux.HandleFunc("GET /test-api", h.TestAPI)

	// Recovery innermost so panics are caught before logging.
	wrapped := recoveryMiddleware(logger, mux)
	wrapped = loggingMiddleware(logger, wrapped)
	wrapped = requestIDMiddleware(wrapped)

	return wrapped
}

// inboundMessage is the payload extracted from a webhook request.
type inboundMessage struct {
	Body string
	From string
}

// Webhook handles one inbound chat message and always replies with a
// well-formed messaging envelope: classification, dispatch, and formatting
// failures are already folded into reply text by the application layer, and
// anything unexpected beyond that degrades to a fixed apology rather than a
// broken response.
func (h *Handler) Webhook(w http.ResponseWriter, r *http.Request) {
	defer func() {
		if v := recover(); v != nil {
			h.logger.Error("webhook panic recovered", "panic", v)
			writeTwiML(w, "Sorry, I encountered an error. Please try again.")
		}
	}()

	msg, err := parseInbound(r)
	if err != nil {
		h.logger.Warn("unparsable webhook payload", "error", err)
		writeTwiML(w, "Sorry, I encountered an error. Please try again.")
		return
	}

	reply := h.messages.Respond(r.Context(), msg.Body)

	h.logger.Info("webhook reply", "from", msg.From, "chars", len(reply))
	writeTwiML(w, reply)
}

// parseInbound accepts the gateway's form encoding (Body/From fields) as
// well as a JSON equivalent.
func parseInbound(r *http.Request) (inboundMessage, error) {
	contentType := r.Header.Get("Content-Type")

	if strings.HasPrefix(contentType, "application/json") {
		var payload struct {
			Body string `json:"body"`
			From string `json:"from"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			return inboundMessage{}, err
		}
		return inboundMessage{Body: payload.Body, From: payload.From}, nil
	}

	if err := r.ParseForm(); err != nil {
		return inboundMessage{}, err
	}
	return inboundMessage{
		Body: r.PostFormValue("Body"),
		From: r.PostFormValue("From"),
	}, nil
}

// Health returns a static health payload.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Service:   "Askari WhatsApp Integration",
	})
}

// TestAPI probes the upstream guard-tour service and reports the outcome,
// with a 502 on failure.
func (h *Handler) TestAPI(w http.ResponseWriter, r *http.Request) {
	status := h.reports.TestConnection(r.Context())

	code := http.StatusOK
	if !status.Success {
		code = http.StatusBadGateway
	}
	writeJSON(w, code, status)
}
