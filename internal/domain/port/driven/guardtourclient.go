package driven

import (
	"context"
	"time"

	"github.com/legitsystems/askari-relay/internal/domain/model"
)

// GuardTourClient defines the driven port for the remote guard-tour REST
// service. Methods return raw typed records; formatting and not-found
// messaging live in the application layer.
type GuardTourClient interface {
	// ListSites returns the full site collection.
	ListSites(ctx context.Context) ([]model.Site, error)
	// GetSite returns detailed information for a single site.
	GetSite(ctx context.Context, id int64) (*model.Site, error)
	// ListPatrols returns patrols recorded for a site, most recent first as
	// ordered by the service. A non-nil since restricts results to patrols
	// on or after that instant (inclusive lower bound; no upper bound).
	ListPatrols(ctx context.Context, siteID int64, since *time.Time) ([]model.Patrol, error)
	// DayPerformance returns the patrol performance summary for one calendar day.
	DayPerformance(ctx context.Context, siteID int64, year, month, day int) (*model.Performance, error)
	// MonthPerformance returns the patrol performance summary for one calendar month.
	MonthPerformance(ctx context.Context, siteID int64, year, month int) (*model.Performance, error)
	// ListGuards returns security guards matching the server-side search
	// term. limit caps the result size; zero means the server default.
	ListGuards(ctx context.Context, search string, limit int) ([]model.Guard, error)
	// Stats returns deployment-wide aggregate counts.
	Stats(ctx context.Context) (*model.SystemStats, error)
	// Ping issues a lightweight authenticated probe against the service.
	Ping(ctx context.Context) error
}
