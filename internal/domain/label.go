package domain

// Label is one category in the fixed classification vocabulary.
type Label struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"type:text;not null;uniqueIndex:idx_labels_name" json:"name"`
}

// TableName returns the database table name for Label.
func (Label) TableName() string {
	return "labels"
}

// Vocabulary is the fixed set of label names seeded at startup. The API
// rejects label submissions outside this set; it is not user-extensible.
var Vocabulary = []string{"good", "bad", "empty", "multigrain", "contaminant", "blurry"}

// KnownLabel reports whether name is part of the seeded vocabulary.
func KnownLabel(name string) bool {
	for _, l := range Vocabulary {
		if l == name {
			return true
		}
	}
	return false
}
