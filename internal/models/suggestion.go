package models

import (
	"time"

	"gorm.io/datatypes"
)

// Urgency is the ordinal classification driving surfacing priority.
type Urgency string

const (
	UrgencyLow    Urgency = "low"
	UrgencyMedium Urgency = "medium"
	UrgencyHigh   Urgency = "high"
)

// SuggestionLocation identifies where a suggestion is rendered.
type SuggestionLocation string

const (
	LocationDashboard    SuggestionLocation = "dashboard"
	LocationSchoolDetail SuggestionLocation = "school_detail"
)

// Suggestion is an actionable recommendation for an athlete. Lifecycle:
// created pending, surfaced in staggered batches, then dismissed or completed
// by the athlete. At most one of dismissed/completed may be set; completed is
// terminal. A dismissed suggestion may reappear once after 14 days with its
// urgency escalated.
type Suggestion struct {
	BaseModel

	AthleteID string  `gorm:"type:uuid;index;not null" json:"athlete_id"`
	SchoolID  *string `gorm:"type:uuid;index" json:"school_id,omitempty"`

	Type     string             `gorm:"type:varchar(64);not null" json:"type"`
	Title    string             `gorm:"type:varchar(255);not null" json:"title"`
	Body     string             `gorm:"type:text" json:"body"`
	Urgency  Urgency            `gorm:"type:varchar(16);default:'medium';index" json:"urgency"`
	Location SuggestionLocation `gorm:"type:varchar(32);default:'dashboard';index" json:"location"`
	Metadata datatypes.JSON     `json:"metadata,omitempty"`

	PendingSurface bool       `gorm:"default:true;index" json:"pending_surface"`
	SurfacedAt     *time.Time `json:"surfaced_at,omitempty"`

	Dismissed   bool       `gorm:"default:false;index" json:"dismissed"`
	DismissedAt *time.Time `json:"dismissed_at,omitempty"`

	Completed   bool       `gorm:"default:false;index" json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	Reappeared bool `gorm:"default:false" json:"reappeared"`
}

func (Suggestion) TableName() string {
	return "suggestions"
}

// Active reports whether the suggestion is currently visible on a dashboard.
func (s *Suggestion) Active() bool {
	return !s.PendingSurface && !s.Dismissed && !s.Completed
}
