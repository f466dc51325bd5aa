package application

import (
	"fmt"
	"strings"
	"time"

	"github.com/legitsystems/askari-relay/internal/domain/model"
)

// Formatters are pure functions from raw records to the uniform Result
// shape: nil or empty input yields HasData=false with a fixed message, and
// present input yields a multi-line template in fixed field order. Optional
// fields are included only when present; missing required display fields
// render as "N/A" rather than being dropped.

// maxPatrolsRendered caps the entries shown in a patrol report reply.
const maxPatrolsRendered = 5

// FormatPatrolReports renders a patrol list for chat, in input order,
// capped at maxPatrolsRendered entries with a "showing N of M" footer when
// the list is longer. Count always carries the true total.
func FormatPatrolReports(patrols []model.Patrol, siteName string) model.Result[[]model.Patrol] {
	if len(patrols) == 0 {
		return model.Result[[]model.Patrol]{
			Message: fmt.Sprintf("No patrol reports found for %s.", siteName),
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "*Patrol Reports - %s*\n\n", siteName)

	shown := patrols
	if len(shown) > maxPatrolsRendered {
		shown = shown[:maxPatrolsRendered]
	}

	for i, patrol := range shown {
		fmt.Fprintf(&b, "*Patrol %d:*\n", i+1)
		fmt.Fprintf(&b, "Guard: %s\n", orNA(patrol.GuardName))
		fmt.Fprintf(&b, "Time: %s\n", formatDateTime(patrol.Timestamp))

		status := patrol.Status
		if status == "" {
			status = "Completed"
		}
		fmt.Fprintf(&b, "Status: %s\n", status)

		if patrol.Location != "" {
			fmt.Fprintf(&b, "Location: %s\n", patrol.Location)
		}
		if patrol.Notes != "" {
			fmt.Fprintf(&b, "Notes: %s\n", patrol.Notes)
		}
		b.WriteString("\n---\n\n")
	}

	if len(patrols) > maxPatrolsRendered {
		fmt.Fprintf(&b, "Showing %d of %d patrol reports.", maxPatrolsRendered, len(patrols))
	}

	return model.Result[[]model.Patrol]{
		Message: strings.TrimSpace(b.String()),
		HasData: true,
		Data:    patrols,
		Count:   len(patrols),
	}
}

// FormatSiteInfo renders one site record.
func FormatSiteInfo(site *model.Site) model.Result[model.Site] {
	if site == nil {
		return model.Result[model.Site]{Message: "Site information not found."}
	}

	var b strings.Builder
	b.WriteString("*Site Information*\n\n")
	fmt.Fprintf(&b, "*Name:* %s\n", orNA(site.Name))
	fmt.Fprintf(&b, "*Location:* %s\n", orNA(site.Address))
	fmt.Fprintf(&b, "*Status:* %s\n", siteStatus(site))

	if site.Description != "" {
		fmt.Fprintf(&b, "*Description:* %s\n", site.Description)
	}
	if site.ContactPerson != "" {
		fmt.Fprintf(&b, "*Contact:* %s\n", site.ContactPerson)
	}
	if site.Phone != "" {
		fmt.Fprintf(&b, "*Phone:* %s\n", site.Phone)
	}
	if site.Company != "" {
		fmt.Fprintf(&b, "*Company:* %s\n", site.Company)
	}

	return model.Result[model.Site]{
		Message: strings.TrimSpace(b.String()),
		HasData: true,
		Data:    *site,
	}
}

// FormatGuardInfo renders one guard record.
func FormatGuardInfo(guard *model.Guard) model.Result[model.Guard] {
	if guard == nil {
		return model.Result[model.Guard]{Message: "Guard information not found."}
	}

	name := strings.TrimSpace(guard.FullName())

	var b strings.Builder
	b.WriteString("*Guard Information*\n\n")
	fmt.Fprintf(&b, "*Name:* %s\n", orNA(name))
	fmt.Fprintf(&b, "*ID:* %s\n", idOrNA(guard.ID))
	fmt.Fprintf(&b, "*Email:* %s\n", orNA(guard.Email))
	fmt.Fprintf(&b, "*Status:* %s\n", activeStatus(guard.Active))

	if guard.Phone != "" {
		fmt.Fprintf(&b, "*Phone:* %s\n", guard.Phone)
	}
	if guard.CurrentSite != "" {
		fmt.Fprintf(&b, "*Current Site:* %s\n", guard.CurrentSite)
	}
	if guard.Company != "" {
		fmt.Fprintf(&b, "*Company:* %s\n", guard.Company)
	}

	return model.Result[model.Guard]{
		Message: strings.TrimSpace(b.String()),
		HasData: true,
		Data:    *guard,
	}
}

// FormatPerformanceReport renders the day or month performance summary for
// a site. Each counter is included only when the upstream payload carried it.
func FormatPerformanceReport(perf *model.Performance, siteName, timeframe string) model.Result[model.Performance] {
	if perf == nil {
		return model.Result[model.Performance]{
			Message: fmt.Sprintf("No performance data found for %s.", siteName),
		}
	}

	period := "This Month"
	if timeframe == "today" {
		period = "Today"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "*Performance Report - %s*\n", siteName)
	fmt.Fprintf(&b, "Period: %s\n\n", period)

	if perf.TotalPatrols != nil {
		fmt.Fprintf(&b, "Total Patrols: %d\n", *perf.TotalPatrols)
	}
	if perf.CompletedPatrols != nil {
		fmt.Fprintf(&b, "Completed: %d\n", *perf.CompletedPatrols)
	}
	if perf.MissedPatrols != nil {
		fmt.Fprintf(&b, "Missed: %d\n", *perf.MissedPatrols)
	}
	if perf.AverageResponse != nil {
		fmt.Fprintf(&b, "Avg Response: %s\n", *perf.AverageResponse)
	}

	return model.Result[model.Performance]{
		Message: strings.TrimSpace(b.String()),
		HasData: true,
		Data:    *perf,
	}
}

// FormatSystemStats renders the deployment-wide counters.
func FormatSystemStats(stats *model.SystemStats) model.Result[model.SystemStats] {
	if stats == nil {
		return model.Result[model.SystemStats]{Message: "System statistics not available."}
	}

	var b strings.Builder
	b.WriteString("*System Statistics*\n\n")

	if stats.TotalSites != nil {
		fmt.Fprintf(&b, "Total Sites: %d\n", *stats.TotalSites)
	}
	if stats.TotalGuards != nil {
		fmt.Fprintf(&b, "Total Guards: %d\n", *stats.TotalGuards)
	}
	if stats.ActivePatrols != nil {
		fmt.Fprintf(&b, "Active Patrols: %d\n", *stats.ActivePatrols)
	}
	if stats.TodayPatrols != nil {
		fmt.Fprintf(&b, "Today's Patrols: %d\n", *stats.TodayPatrols)
	}

	return model.Result[model.SystemStats]{
		Message: strings.TrimSpace(b.String()),
		HasData: true,
		Data:    *stats,
	}
}

// FormatSiteList renders the numbered all-sites listing.
func FormatSiteList(sites []model.Site) string {
	var b strings.Builder
	b.WriteString("*All Sites:*\n\n")

	for i, site := range sites {
		fmt.Fprintf(&b, "%d. %s", i+1, orDefault(site.Name, "Unnamed Site"))
		if site.Status != "" {
			fmt.Fprintf(&b, " (%s)", site.Status)
		}
		b.WriteString("\n")
	}

	return strings.TrimSpace(b.String())
}

// dateTimeLayouts are tried in order when rendering upstream timestamps.
var dateTimeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// formatDateTime renders an ISO-ish timestamp in a long locale-independent
// format. Unparsable input is echoed back verbatim rather than failing, and
// empty input renders as "N/A".
func formatDateTime(raw string) string {
	if raw == "" {
		return "N/A"
	}

	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("Jan 2, 2006, 3:04 PM")
		}
	}
	return raw
}

func siteStatus(site *model.Site) string {
	if site.Status != "" {
		return site.Status
	}
	return activeStatus(site.Active)
}

func activeStatus(active bool) string {
	if active {
		return "Active"
	}
	return "Inactive"
}

func orNA(v string) string {
	return orDefault(v, "N/A")
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func idOrNA(id int64) string {
	if id == 0 {
		return "N/A"
	}
	return fmt.Sprintf("%d", id)
}
