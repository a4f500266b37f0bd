package models

import "time"

// TopicRequest represents a visitor's request for a study topic.
type TopicRequest struct {
	RequestID   int       `gorm:"primaryKey;column:request_id" json:"request_id"`
	Name        string    `gorm:"column:name" json:"name"`
	Email       string    `gorm:"column:email" json:"email"`
	Topic       string    `gorm:"column:topic" json:"topic"`
	Description string    `gorm:"column:description" json:"description"`
	CreatedAt   time.Time `gorm:"column:created_at" json:"created_at"`
}

func (TopicRequest) TableName() string { return "topic_requests" }
