package model

// Patrol is a recorded guard visit at a site. Patrols are never persisted
// locally; they are read from the upstream service per request and rendered.
//
// Timestamp is kept as the raw upstream value: the formatter renders it in a
// long date format when parsable and echoes it verbatim otherwise.
type Patrol struct {
	GuardName string
	Timestamp string
	Status    string
	Location  string
	Notes     string
}
