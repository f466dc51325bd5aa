package application

import (
	"context"
	"log/slog"

	"github.com/legitsystems/askari-relay/internal/domain/model"
	"github.com/legitsystems/askari-relay/internal/domain/port/driven"
)

// Canned replies for classification and dispatch edge cases.
const (
	msgUnparsed = "Sorry, I didn't understand that. Please try rephrasing your request."
	msgUnknown  = `I didn't understand that request. Type "help" to see what I can do for you.`
	msgNoSites  = "No sites found in the system."
	msgUnwired  = "I recognized your intent, but can't handle it yet."

	promptPatrolSite = "I can get patrol reports for you! Please specify which site you'd like to check.\n\n" +
		`Example: "Show patrol report for Site Alpha"`
	promptSiteName = "I can provide site information! Please specify which site you'd like to know about.\n\n" +
		`Example: "Tell me about Site Alpha"`
	promptGuardName = "I can provide guard information! Please specify which guard you'd like to know about.\n\n" +
		`Example: "Tell me about guard John"`
	promptPerformanceSite = "Please specify which site you'd like the performance report for.\n\n" +
		`Example: "Performance for Site Alpha"`

	helpText = "*Askari WhatsApp Assistant*\n\n" +
		"I can help you with:\n\n" +
		"*Patrol Reports*\n" +
		"\"Show patrol report for Site Alpha\"\n" +
		"\"Get patrol status for Site Beta\"\n\n" +
		"*Site Information*\n" +
		"\"Tell me about Site Alpha\"\n" +
		"\"Site info for Site Beta\"\n\n" +
		"*Guard Information*\n" +
		"\"Guard info for John\"\n" +
		"\"Tell me about guard Mary\"\n\n" +
		"*Site Performance*\n" +
		"\"Performance for Site Alpha\"\n\n" +
		"*System Stats*\n" +
		"\"System stats\"\n" +
		"\"Dashboard\"\n\n" +
		"*List All Sites*\n" +
		"\"List all sites\"\n" +
		"\"Show all sites\"\n\n" +
		"Just ask me naturally - I understand various ways of asking!"
)

// MessageService runs the classify, dispatch, format pipeline for one
// inbound chat message. Every path produces a reply string; errors from the
// report operations carry fixed user-safe messages and are folded into an
// apology line.
type MessageService struct {
	classifier driven.Classifier
	reports    *ReportService
	logger     *slog.Logger
}

// NewMessageService creates a MessageService with the required dependencies.
func NewMessageService(classifier driven.Classifier, reports *ReportService, logger *slog.Logger) *MessageService {
	return &MessageService{
		classifier: classifier,
		reports:    reports,
		logger:     logger,
	}
}

// Respond produces the reply for one inbound message.
func (s *MessageService) Respond(ctx context.Context, text string) string {
	classification, err := s.classifier.Classify(ctx, text)
	if err != nil || classification == nil {
		if err != nil {
			s.logger.Warn("classification failed", "error", err)
		}
		return msgUnparsed
	}

	s.logger.Info("processing intent",
		"intent", classification.Intent,
		"site", classification.Entities.SiteName,
		"guard", classification.Entities.GuardName,
	)

	return s.dispatch(ctx, classification)
}

// dispatch maps a classified intent onto exactly one report operation.
// Missing required entities produce a clarification prompt instead of an
// API call.
func (s *MessageService) dispatch(ctx context.Context, c *model.Classification) string {
	entities := c.Entities

	switch c.Intent {
	case model.IntentPatrolReport:
		if entities.SiteName == "" {
			return promptPatrolSite
		}
		res, err := s.reports.GetPatrolReports(ctx, entities.SiteName, entities.Date)
		if err != nil {
			return "Sorry, I couldn't fetch the patrol report for " + entities.SiteName + ". " + err.Error()
		}
		return res.Message

	case model.IntentSiteInfo:
		if entities.SiteName == "" {
			return promptSiteName
		}
		res, err := s.reports.GetSiteInfo(ctx, entities.SiteName)
		if err != nil {
			return "Sorry, I couldn't fetch information for " + entities.SiteName + ". " + err.Error()
		}
		return res.Message

	case model.IntentGuardInfo:
		if entities.GuardName == "" {
			return promptGuardName
		}
		res, err := s.reports.GetGuardInfo(ctx, entities.GuardName)
		if err != nil {
			return "Sorry, I couldn't fetch information for guard " + entities.GuardName + ". " + err.Error()
		}
		return res.Message

	case model.IntentSitePerformance:
		if entities.SiteName == "" {
			return promptPerformanceSite
		}
		res, err := s.reports.GetSitePerformance(ctx, entities.SiteName, entities.Timeframe)
		if err != nil {
			return "Sorry, I couldn't fetch performance data for " + entities.SiteName + ". " + err.Error()
		}
		return res.Message

	case model.IntentSystemStats:
		res, err := s.reports.GetSystemStats(ctx)
		if err != nil {
			return "Sorry, I couldn't fetch system statistics. " + err.Error()
		}
		return res.Message

	case model.IntentListSites:
		sites, err := s.reports.GetAllSites(ctx)
		if err != nil {
			return "Sorry, I couldn't fetch the sites list. " + err.Error()
		}
		if len(sites) == 0 {
			return msgNoSites
		}
		return FormatSiteList(sites)

	case model.IntentGuardsForSite:
		// Recognized by the NLU prompt but not yet backed by an endpoint.
		return msgUnwired

	case model.IntentHelp:
		return helpText

	default:
		return msgUnknown
	}
}
