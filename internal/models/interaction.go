package models

import "time"

// InteractionChannel is the medium of a logged touchpoint.
type InteractionChannel string

const (
	ChannelCall  InteractionChannel = "call"
	ChannelEmail InteractionChannel = "email"
	ChannelText  InteractionChannel = "text"
	ChannelVisit InteractionChannel = "visit"
	ChannelCamp  InteractionChannel = "camp"
)

// Interaction records a touchpoint between the athlete and a school or coach.
// Logging one re-evaluates the athlete's suggestions with reason
// interaction_logged.
type Interaction struct {
	BaseModel

	AthleteID string  `gorm:"type:uuid;index;not null" json:"athlete_id"`
	SchoolID  string  `gorm:"type:uuid;index;not null" json:"school_id"`
	CoachID   *string `gorm:"type:uuid;index" json:"coach_id,omitempty"`

	Channel    InteractionChannel `gorm:"type:varchar(16);not null" json:"channel"`
	OccurredAt time.Time          `gorm:"index;not null" json:"occurred_at"`
	Notes      string             `gorm:"type:text" json:"notes"`
}
