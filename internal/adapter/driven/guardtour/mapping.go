package guardtour

import (
	"encoding/json"
	"strconv"

	"github.com/legitsystems/askari-relay/internal/domain/model"
)

// Wire types mirror the service's JSON, including the alternate field names
// it emits for the same value (address/location, phone/phoneNumber). Mapping
// resolves each alternate pair to a single domain field so the formatting
// layer never deals with duplicates.

type siteJSON struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name"`
	Title         string          `json:"title"`
	Address       string          `json:"address"`
	Location      string          `json:"location"`
	Status        string          `json:"status"`
	IsActive      bool            `json:"isActive"`
	Description   string          `json:"description"`
	ContactPerson string          `json:"contactPerson"`
	Contact       string          `json:"contact"`
	Phone         string          `json:"phone"`
	PhoneNumber   string          `json:"phoneNumber"`
	Company       json.RawMessage `json:"company"`
}

type guardJSON struct {
	ID          int64           `json:"id"`
	GuardID     int64           `json:"guardId"`
	FirstName   string          `json:"firstName"`
	LastName    string          `json:"lastName"`
	Name        string          `json:"name"`
	Email       string          `json:"email"`
	Phone       string          `json:"phone"`
	PhoneNumber string          `json:"phoneNumber"`
	IsActive    bool            `json:"isActive"`
	CurrentSite string          `json:"currentSite"`
	Company     json.RawMessage `json:"company"`
}

type patrolJSON struct {
	GuardName string `json:"guardName"`
	Guard     *struct {
		Name string `json:"name"`
	} `json:"guard"`
	Timestamp   string `json:"timestamp"`
	CreatedAt   string `json:"createdAt"`
	Status      string `json:"status"`
	Location    string `json:"location"`
	Notes       string `json:"notes"`
	Description string `json:"description"`
}

type performanceJSON struct {
	TotalPatrols     *int            `json:"totalPatrols"`
	CompletedPatrols *int            `json:"completedPatrols"`
	MissedPatrols    *int            `json:"missedPatrols"`
	AverageResponse  json.RawMessage `json:"averageResponse"`
}

type statsJSON struct {
	TotalSites    *int `json:"totalSites"`
	TotalGuards   *int `json:"totalGuards"`
	ActivePatrols *int `json:"activePatrols"`
	TodayPatrols  *int `json:"todayPatrols"`
}

func mapSite(s siteJSON) model.Site {
	return model.Site{
		ID:            s.ID,
		Name:          firstNonEmpty(s.Name, s.Title),
		Address:       firstNonEmpty(s.Address, s.Location),
		Status:        s.Status,
		Active:        s.IsActive,
		Description:   s.Description,
		ContactPerson: firstNonEmpty(s.ContactPerson, s.Contact),
		Phone:         firstNonEmpty(s.Phone, s.PhoneNumber),
		Company:       companyName(s.Company),
	}
}

func mapGuard(g guardJSON) model.Guard {
	id := g.ID
	if id == 0 {
		id = g.GuardID
	}

	return model.Guard{
		ID:          id,
		FirstName:   g.FirstName,
		LastName:    firstNonEmpty(g.LastName, g.Name),
		Email:       g.Email,
		Phone:       firstNonEmpty(g.Phone, g.PhoneNumber),
		Active:      g.IsActive,
		CurrentSite: g.CurrentSite,
		Company:     companyName(g.Company),
	}
}

func mapPatrol(p patrolJSON) model.Patrol {
	guardName := p.GuardName
	if guardName == "" && p.Guard != nil {
		guardName = p.Guard.Name
	}

	return model.Patrol{
		GuardName: guardName,
		Timestamp: firstNonEmpty(p.Timestamp, p.CreatedAt),
		Status:    p.Status,
		Location:  p.Location,
		Notes:     firstNonEmpty(p.Notes, p.Description),
	}
}

func mapPerformance(p performanceJSON) model.Performance {
	return model.Performance{
		TotalPatrols:     p.TotalPatrols,
		CompletedPatrols: p.CompletedPatrols,
		MissedPatrols:    p.MissedPatrols,
		AverageResponse:  rawScalar(p.AverageResponse),
	}
}

func mapStats(s statsJSON) model.SystemStats {
	return model.SystemStats{
		TotalSites:    s.TotalSites,
		TotalGuards:   s.TotalGuards,
		ActivePatrols: s.ActivePatrols,
		TodayPatrols:  s.TodayPatrols,
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// companyName extracts a display name from the company field, which the
// service emits either as an object with a name or as a bare string.
func companyName(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var obj struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil && obj.Name != "" {
		return obj.Name
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return ""
}

// rawScalar renders a JSON string or number as display text, nil when the
// field was absent.
func rawScalar(raw json.RawMessage) *string {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return &s
	}

	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		text := strconv.FormatFloat(n, 'f', -1, 64)
		return &text
	}
	return nil
}
