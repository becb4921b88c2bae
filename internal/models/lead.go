package models

import "time"

// Lead is a prospective customer's contact submission captured via the
// consultation form. Rows are insert-only; the API never updates or deletes
// them.
type Lead struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Phone     string    `gorm:"size:32;not null" json:"phone"`
	Telegram  *string   `gorm:"size:64" json:"telegram"`
	Email     *string   `gorm:"size:255" json:"email"`
	Source    string    `gorm:"size:64;not null" json:"source"`
	UserAgent *string   `gorm:"size:512" json:"user_agent"`
	Referrer  *string   `gorm:"size:512" json:"referrer"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
