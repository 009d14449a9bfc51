package dashboard

import (
	"math"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Settings are the per-client feature flags controlling which dashboard
// sections load. A client without a settings row gets every section.
type Settings struct {
	ClientID        string
	ShowProperties  bool
	ShowDocuments   bool
	ShowFinancials  bool
	ShowMaintenance bool
	ShowAIInsights  bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// DefaultSettings is the all-enabled fallback used when no settings row
// exists for the client.
func DefaultSettings(clientID string) Settings {
	now := time.Now()

	return Settings{
		ClientID:        clientID,
		ShowProperties:  true,
		ShowDocuments:   true,
		ShowFinancials:  true,
		ShowMaintenance: true,
		ShowAIInsights:  true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

const (
	StatusOccupied = "Occupied"
	StatusVacant   = "Vacant"
)

type Property struct {
	ID          string
	ClientID    string
	Name        string
	Address     string
	Status      string
	MonthlyRent int64
	CreatedAt   time.Time
}

type Document struct {
	ID        string
	ClientID  string
	Name      string
	Visible   bool
	CreatedAt time.Time
}

// Overview is one dashboard load cycle's result. On a partial failure the
// fields populated before the failing read keep their data.
type Overview struct {
	Settings   Settings
	Properties []Property
	Documents  []Document
}

func (o *Overview) OccupiedCount() int {
	count := 0
	for _, p := range o.Properties {
		if p.Status == StatusOccupied {
			count++
		}
	}

	return count
}

// OccupancyPercent returns the occupied share of the portfolio. An empty
// portfolio reads as 0, a fully occupied one as 100, anything in between
// is rounded.
func (o *Overview) OccupancyPercent() int {
	total := len(o.Properties)
	if total == 0 {
		return 0
	}

	occupied := o.OccupiedCount()
	if occupied == total {
		return 100
	}

	return int(math.Round(float64(occupied) / float64(total) * 100))
}

// MonthlyRevenue sums the rent of occupied properties only.
func (o *Overview) MonthlyRevenue() int64 {
	var sum int64
	for _, p := range o.Properties {
		if p.Status == StatusOccupied {
			sum += p.MonthlyRent
		}
	}

	return sum
}

var displayPrinter = message.NewPrinter(language.AmericanEnglish)

// FormattedRevenue renders the monthly revenue for display, e.g. "$1,000".
func (o *Overview) FormattedRevenue() string {
	return displayPrinter.Sprintf("$%d", o.MonthlyRevenue())
}

// FormattedOccupancy renders the occupancy for display, e.g. "50%".
func (o *Overview) FormattedOccupancy() string {
	return displayPrinter.Sprintf("%d%%", o.OccupancyPercent())
}
