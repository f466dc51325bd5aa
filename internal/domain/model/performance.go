package model

// Performance is a flat numeric summary of patrol activity for a site over
// a day or a month. Nil fields were absent from the upstream payload and are
// omitted from the rendered report.
type Performance struct {
	TotalPatrols     *int
	CompletedPatrols *int
	MissedPatrols    *int
	AverageResponse  *string
}

// SystemStats holds aggregate counts for the whole deployment.
type SystemStats struct {
	TotalSites    *int
	TotalGuards   *int
	ActivePatrols *int
	TodayPatrols  *int
}
