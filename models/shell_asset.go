package models

import "time"

// ShellAsset is one cached application-shell response under a cache
// generation. All rows sharing a Version are purged together when a newer
// generation activates.
type ShellAsset struct {
	Version     string    `gorm:"primaryKey;size:64" json:"version"`
	URL         string    `gorm:"primaryKey;size:512" json:"url"`
	Body        []byte    `gorm:"type:blob" json:"-"`
	ContentType string    `gorm:"size:100" json:"content_type"`
	Status      int       `json:"status"`
	FetchedAt   time.Time `json:"fetched_at"`
}

func (ShellAsset) TableName() string {
	return "shell_assets"
}
