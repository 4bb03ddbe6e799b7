package types

import (
	"time"
)

// ObjectHandle identifies one uploaded story in object storage. It is the
// only value handed from the generate/upload stage to the extract/record
// stage, serialized through the workflow's payload converter.
type ObjectHandle struct {
	Bucket    string `json:"bucket"`
	ObjectKey string `json:"object_key"`
	URL       string `json:"url"`
}

// StoryRecord is one row of the append-only metadata ledger. The table is
// created once if absent and is never altered afterwards.
type StoryRecord struct {
	ID                   uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt            time.Time `gorm:"column:created_at;not null" json:"created_at"`
	Title                string    `gorm:"column:title;size:200;not null" json:"title"`
	LengthChars          int       `gorm:"column:length_chars;not null" json:"length_chars"`
	LengthWords          int       `gorm:"column:length_words;not null" json:"length_words"`
	EstimatedReadTimeMin int       `gorm:"column:estimated_read_time_min;not null" json:"estimated_read_time_min"`
	PrimaryTheme         string    `gorm:"column:primary_theme;size:100" json:"primary_theme"`
	ObjectURL            string    `gorm:"column:object_url;size:500;not null" json:"object_url"`
}

func (StoryRecord) TableName() string {
	return "bedtime_stories"
}
