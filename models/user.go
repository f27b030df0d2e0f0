package models

// User is a registered login. Logins are stored case-folded.
type User struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Login        string `gorm:"type:varchar(30);uniqueIndex;not null" json:"login"`
	PasswordHash string `gorm:"not null" json:"-"`

	Timestamps
}
