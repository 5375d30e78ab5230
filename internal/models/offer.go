package models

import "time"

// OfferStatus tracks the athlete's decision state on an offer.
type OfferStatus string

const (
	OfferReceived OfferStatus = "received"
	OfferAccepted OfferStatus = "accepted"
	OfferDeclined OfferStatus = "declined"
	OfferExpired  OfferStatus = "expired"
)

// Offer is a scholarship or roster offer extended by a school.
type Offer struct {
	BaseModel

	AthleteID string `gorm:"type:uuid;index;not null" json:"athlete_id"`
	SchoolID  string `gorm:"type:uuid;index;not null" json:"school_id"`

	Type       string      `gorm:"type:varchar(64)" json:"type"` // full, partial, walk-on, preferred walk-on
	Amount     float64     `json:"amount"`
	Status     OfferStatus `gorm:"type:varchar(16);default:'received';index" json:"status"`
	ReceivedAt time.Time   `gorm:"not null" json:"received_at"`
	Deadline   *time.Time  `gorm:"index" json:"deadline,omitempty"`
	Notes      string      `gorm:"type:text" json:"notes"`
}
