package domain

// DefaultUserName is the user credited when a label submission carries
// no user name. Seeded at startup.
const DefaultUserName = "default"

// User is a free-text identity supplied per request; there is no
// authentication. Users are created lazily on first label submission.
type User struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"type:text;not null;uniqueIndex:idx_users_name" json:"name"`
}

// TableName returns the database table name for User.
func (User) TableName() string {
	return "users"
}
