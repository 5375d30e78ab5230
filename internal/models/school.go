package models

// SchoolStatus tracks how far the athlete's relationship with a school has progressed.
type SchoolStatus string

const (
	SchoolInterested SchoolStatus = "interested"
	SchoolContacted  SchoolStatus = "contacted"
	SchoolVisiting   SchoolStatus = "visiting"
	SchoolOffered    SchoolStatus = "offered"
	SchoolCommitted  SchoolStatus = "committed"
)

// School is a program the athlete is tracking. Rows are scoped to the athlete
// that created them; two athletes tracking the same school hold separate rows.
type School struct {
	BaseModel

	AthleteID string `gorm:"type:uuid;index;not null" json:"athlete_id"`

	Name     string       `gorm:"type:varchar(255);not null" json:"name"`
	Division string       `gorm:"type:varchar(32)" json:"division"`
	City     string       `gorm:"type:varchar(128)" json:"city"`
	State    string       `gorm:"type:varchar(32)" json:"state"`
	Status   SchoolStatus `gorm:"type:varchar(32);default:'interested';index" json:"status"`
	Notes    string       `gorm:"type:text" json:"notes"`

	Coaches []Coach `gorm:"foreignKey:SchoolID" json:"coaches,omitempty"`
}

// Coach is a contact at a tracked school.
type Coach struct {
	BaseModel

	SchoolID  string `gorm:"type:uuid;index;not null" json:"school_id"`
	AthleteID string `gorm:"type:uuid;index;not null" json:"athlete_id"`

	Name  string `gorm:"type:varchar(255);not null" json:"name"`
	Title string `gorm:"type:varchar(128)" json:"title"`
	Email string `gorm:"type:varchar(255)" json:"email"`
	Phone string `gorm:"type:varchar(64)" json:"phone"`
}
