package application

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/legitsystems/askari-relay/internal/domain/model"
	"github.com/legitsystems/askari-relay/internal/domain/port/driven"
)

// Fixed user-safe messages for upstream failures. Raw transport detail is
// logged, never put in chat replies.
const (
	msgPatrolsFailed     = "Failed to fetch patrol reports. Please try again."
	msgSiteInfoFailed    = "Failed to fetch site information. Please try again."
	msgGuardInfoFailed   = "Failed to fetch guard information. Please try again."
	msgPerformanceFailed = "Failed to fetch site performance data. Please try again."
	msgSitesFailed       = "Failed to fetch sites list. Please try again."
	msgStatsFailed       = "Failed to fetch system statistics. Please try again."
)

// guardSearchLimit caps the server-side guard search result size.
const guardSearchLimit = 50

// ReportService exposes the chat-facing report operations over the
// guard-tour client. Not-found is a normal HasData=false result with a
// fixed message; transport failures surface as UpstreamError with a fixed
// user-safe message.
type ReportService struct {
	client driven.GuardTourClient
	logger *slog.Logger
	now    func() time.Time
}

// NewReportService creates a ReportService with the required dependencies.
func NewReportService(client driven.GuardTourClient, logger *slog.Logger) *ReportService {
	return &ReportService{
		client: client,
		logger: logger,
		now:    time.Now,
	}
}

// ConnectionStatus is the outcome of a connectivity probe.
type ConnectionStatus struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// FindSiteByName resolves a site by exact name, case-insensitive and
// whitespace-trimmed. The service-side listing may match loosely; the exact
// re-filter here is what keeps "Test Site" from resolving to "Test Site 2".
// Returns nil both when nothing matches and when the listing itself fails.
func (s *ReportService) FindSiteByName(ctx context.Context, name string) *model.Site {
	sites, err := s.client.ListSites(ctx)
	if err != nil {
		s.logger.Error("site lookup failed", "site", name, "error", err)
		return nil
	}

	want := strings.ToLower(strings.TrimSpace(name))
	for _, site := range sites {
		if strings.ToLower(strings.TrimSpace(site.Name)) == want {
			return &site
		}
	}
	return nil
}

// GetSiteInfo resolves a site by name and renders its detail record.
func (s *ReportService) GetSiteInfo(ctx context.Context, name string) (model.Result[model.Site], error) {
	site := s.FindSiteByName(ctx, name)
	if site == nil {
		return siteNotFound[model.Site](name), nil
	}

	detail, err := s.client.GetSite(ctx, site.ID)
	if err != nil {
		s.logger.Error("fetch site info failed", "site", name, "error", err)
		return model.Result[model.Site]{}, model.NewUpstreamError(msgSiteInfoFailed, err)
	}

	return FormatSiteInfo(detail), nil
}

// GetGuardByName returns the first guard whose full name contains the query
// as a case-insensitive substring. Unlike sites, guard lookup is
// deliberately a contains-match ("becca" finds Rebecca).
func (s *ReportService) GetGuardByName(ctx context.Context, name string) (*model.Guard, error) {
	guards, err := s.client.ListGuards(ctx, name, guardSearchLimit)
	if err != nil {
		return nil, err
	}

	want := strings.ToLower(strings.TrimSpace(name))
	for _, guard := range guards {
		if strings.Contains(strings.ToLower(guard.FullName()), want) {
			return &guard, nil
		}
	}
	return nil, nil
}

// GetGuardInfo resolves a guard by name and renders the record.
func (s *ReportService) GetGuardInfo(ctx context.Context, name string) (model.Result[model.Guard], error) {
	guard, err := s.GetGuardByName(ctx, name)
	if err != nil {
		s.logger.Error("fetch guard info failed", "guard", name, "error", err)
		return model.Result[model.Guard]{}, model.NewUpstreamError(msgGuardInfoFailed, err)
	}
	if guard == nil {
		return model.Result[model.Guard]{
			Message: `Guard "` + name + `" not found. Please check the name and try again.`,
		}, nil
	}

	return FormatGuardInfo(guard), nil
}

// GetPatrolReports renders the patrol list for a site, optionally
// restricted to patrols on or after date (YYYY-MM-DD, inclusive lower
// bound; there is no upper bound).
func (s *ReportService) GetPatrolReports(ctx context.Context, siteName, date string) (model.Result[[]model.Patrol], error) {
	site := s.FindSiteByName(ctx, siteName)
	if site == nil {
		return siteNotFound[[]model.Patrol](siteName), nil
	}

	var since *time.Time
	if date != "" {
		if t, err := time.Parse("2006-01-02", date); err == nil {
			since = &t
		} else {
			s.logger.Warn("ignoring unparsable patrol date filter", "date", date)
		}
	}

	patrols, err := s.client.ListPatrols(ctx, site.ID, since)
	if err != nil {
		s.logger.Error("fetch patrols failed", "site", siteName, "error", err)
		return model.Result[[]model.Patrol]{}, model.NewUpstreamError(msgPatrolsFailed, err)
	}

	return FormatPatrolReports(patrols, siteName), nil
}

// GetSitePerformance renders the performance summary for a site. A "today"
// timeframe queries the day-scoped endpoint for the current date; any other
// timeframe queries the month-scoped endpoint.
func (s *ReportService) GetSitePerformance(ctx context.Context, siteName, timeframe string) (model.Result[model.Performance], error) {
	site := s.FindSiteByName(ctx, siteName)
	if site == nil {
		return siteNotFound[model.Performance](siteName), nil
	}

	now := s.now()
	year, month, day := now.Year(), int(now.Month()), now.Day()

	var (
		perf *model.Performance
		err  error
	)
	if timeframe == "today" {
		perf, err = s.client.DayPerformance(ctx, site.ID, year, month, day)
	} else {
		perf, err = s.client.MonthPerformance(ctx, site.ID, year, month)
	}
	if err != nil {
		s.logger.Error("fetch performance failed", "site", siteName, "timeframe", timeframe, "error", err)
		return model.Result[model.Performance]{}, model.NewUpstreamError(msgPerformanceFailed, err)
	}

	return FormatPerformanceReport(perf, siteName, timeframe), nil
}

// GetAllSites returns the raw site collection.
func (s *ReportService) GetAllSites(ctx context.Context) ([]model.Site, error) {
	sites, err := s.client.ListSites(ctx)
	if err != nil {
		s.logger.Error("fetch sites failed", "error", err)
		return nil, model.NewUpstreamError(msgSitesFailed, err)
	}
	return sites, nil
}

// GetSystemStats renders the deployment-wide counters.
func (s *ReportService) GetSystemStats(ctx context.Context) (model.Result[model.SystemStats], error) {
	stats, err := s.client.Stats(ctx)
	if err != nil {
		s.logger.Error("fetch stats failed", "error", err)
		return model.Result[model.SystemStats]{}, model.NewUpstreamError(msgStatsFailed, err)
	}
	return FormatSystemStats(stats), nil
}

// TestConnection probes the upstream service. It never returns an error;
// failures are reported in the status.
func (s *ReportService) TestConnection(ctx context.Context) ConnectionStatus {
	if err := s.client.Ping(ctx); err != nil {
		s.logger.Error("api connection test failed", "error", err)
		return ConnectionStatus{Success: false, Message: "API connection failed"}
	}
	return ConnectionStatus{Success: true, Message: "API connection successful"}
}

func siteNotFound[T any](name string) model.Result[T] {
	return model.Result[T]{
		Message: `Site "` + name + `" not found. Please check the site name and try again.`,
	}
}
