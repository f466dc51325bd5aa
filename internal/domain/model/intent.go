package model

// Intent is the classified purpose of an inbound chat message.
type Intent string

const (
	IntentPatrolReport    Intent = "patrol_report"
	IntentSiteInfo        Intent = "site_info"
	IntentGuardInfo       Intent = "guard_info"
	IntentSitePerformance Intent = "site_performance"
	IntentSystemStats     Intent = "system_stats"
	IntentListSites       Intent = "list_sites"
	IntentGuardsForSite   Intent = "guards_for_site"
	IntentHelp            Intent = "help"
	IntentUnknown         Intent = "unknown"
)

// Entities are named values extracted from a message. All fields are
// optional; missing required entities degrade to a clarification prompt,
// never a failed request.
type Entities struct {
	SiteName  string
	GuardName string
	// Date is a concrete calendar day in YYYY-MM-DD form, derived from
	// relative references like "yesterday".
	Date      string
	Timeframe string
}

// Classification is the output of an intent classifier. A nil
// *Classification means the classifier could not produce a usable result
// and the caller must fall back to the unrecognized-input response.
type Classification struct {
	Intent   Intent
	Entities Entities
}
