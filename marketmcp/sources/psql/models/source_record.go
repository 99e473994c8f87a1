// marketmcp/sources/psql/models/source_record.go
package models

import (
	"time"
)

// SourceRecord indexes every saved citation by URL. The latest save wins.
type SourceRecord struct {
	URL           string    `json:"url" gorm:"type:text;primaryKey"`
	FinalURL      *string   `json:"final_url" gorm:"type:text"`
	FetchedAt     time.Time `json:"fetched_at" gorm:"not null"`
	Title         *string   `json:"title" gorm:"type:text"`
	Publisher     *string   `json:"publisher" gorm:"type:varchar(255)"`
	PublishedDate *string   `json:"published_date" gorm:"type:varchar(64)"`
	Category      *string   `json:"category" gorm:"type:varchar(255)"`
	Confidence    *string   `json:"confidence" gorm:"type:varchar(64)"`
	SavedPath     string    `json:"saved_path" gorm:"type:text;not null"`
	UpdatedAt     time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (SourceRecord) TableName() string {
	return "source_records"
}
