package domain

import "time"

// Assignment records one labeling event: one user putting one label on
// one image. Rows are append-only; re-labeling the same image adds a new
// row rather than replacing the old one, so counts reflect events, not
// distinct images.
type Assignment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ImageID   uint      `gorm:"not null;index:idx_assignments_image" json:"image_id"`
	LabelID   uint      `gorm:"not null;index:idx_assignments_label" json:"label_id"`
	UserID    uint      `gorm:"not null;index:idx_assignments_user" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`

	Image Image `gorm:"foreignKey:ImageID" json:"-"`
	Label Label `gorm:"foreignKey:LabelID" json:"-"`
	User  User  `gorm:"foreignKey:UserID" json:"-"`
}

// TableName returns the database table name for Assignment.
func (Assignment) TableName() string {
	return "assignments"
}

// LabelCount is one row of a per-label tally.
type LabelCount struct {
	Label string `json:"label"`
	Count int64  `json:"count"`
}

// UserScore is one row of the scoreboard.
type UserScore struct {
	Name  string `json:"name"`
	Total int64  `json:"total"`
}

// Totals summarizes catalog progress. Unclassified is always
// Total - Classified.
type Totals struct {
	Total        int64 `json:"total"`
	Classified   int64 `json:"classified"`
	Unclassified int64 `json:"unclassified"`
}
