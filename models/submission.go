package models

import (
	"encoding/json"
	"time"
)

// Submission represents the user_submitted_data table. The Data column is a
// single JSON document holding the question list and review metadata; its
// shape has evolved in place, so readers must go through services.Normalize
// rather than decoding it directly.
type Submission struct {
	ID          int             `gorm:"primaryKey;column:id" json:"id"`
	Username    string          `gorm:"column:username" json:"username"`
	Topic       string          `gorm:"column:topic" json:"topic"`
	Description string          `gorm:"column:description" json:"description"`
	Data        json.RawMessage `gorm:"column:data;type:jsonb" json:"data"`
	CreatedAt   time.Time       `gorm:"column:created_at" json:"created_at"`
}

// TableName overrides
func (Submission) TableName() string {
	return "user_submitted_data"
}
