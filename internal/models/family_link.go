package models

import "time"

// FamilyLink grants a parent read-only access to an athlete's data. The
// athlete generates a short code; redeeming it binds the parent account to
// the athlete. Codes are single-use and expire.
type FamilyLink struct {
	BaseModel

	AthleteID string `gorm:"type:uuid;index;not null" json:"athlete_id"`
	Code      string `gorm:"type:varchar(16);uniqueIndex;not null" json:"code"`

	ExpiresAt  time.Time  `gorm:"index;not null" json:"expires_at"`
	RedeemedBy *string    `gorm:"type:uuid" json:"redeemed_by,omitempty"`
	RedeemedAt *time.Time `json:"redeemed_at,omitempty"`
}

// Redeemable reports whether the code can still be claimed at the given time.
func (l *FamilyLink) Redeemable(now time.Time) bool {
	return l.RedeemedBy == nil && now.Before(l.ExpiresAt)
}
