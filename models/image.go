package models

// Image is one stored gallery entry. The row owns the raw bytes; display
// URLs are derived in memory and never persisted.
type Image struct {
	ID          int64  `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Name        string `gorm:"type:varchar(255);not null" json:"name"`
	Blob        []byte `gorm:"type:blob;not null" json:"-"`
	Thumbnail   []byte `gorm:"type:blob" json:"-"`
	Size        int64  `gorm:"not null" json:"size"`
	MimeType    string `gorm:"type:varchar(100);not null" json:"mime_type"`
	AddedAt     string `gorm:"type:varchar(64);not null;index" json:"added_at"`
	OriginalURL string `gorm:"type:varchar(2048)" json:"original_url,omitempty"`
}

func (Image) TableName() string {
	return "images"
}
