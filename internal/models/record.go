package models

import "time"

// Record is one namespaced collection persisted as a JSON document.
type Record struct {
	Namespace  string    `gorm:"primaryKey;type:varchar(128)"`
	Collection string    `gorm:"primaryKey;type:varchar(64)"`
	Data       string    `gorm:"type:text;not null"`
	Version    int64     `gorm:"not null"`
	UpdatedAt  time.Time
}

// TableName overrides the default table name.
func (Record) TableName() string {
	return "records"
}
