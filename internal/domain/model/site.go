package model

// Site represents a monitored physical location under patrol.
// Optional display fields (Description, ContactPerson, Phone, Company) are
// empty strings when the upstream record omits them.
type Site struct {
	ID            int64
	Name          string
	Address       string
	Status        string
	Active        bool
	Description   string
	ContactPerson string
	Phone         string
	Company       string
}
