package model

// Guard represents a security officer assigned to patrols.
type Guard struct {
	ID          int64
	FirstName   string
	LastName    string
	Email       string
	Phone       string
	Active      bool
	CurrentSite string
	Company     string
}

// FullName joins first and last name with a single space. Name matching
// against free-text queries runs on this value.
func (g Guard) FullName() string {
	return g.FirstName + " " + g.LastName
}
