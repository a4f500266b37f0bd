package models

import "time"

// NewsletterSubscription represents one subscribed email address.
type NewsletterSubscription struct {
	SubscriptionID int       `gorm:"primaryKey;column:subscription_id" json:"subscription_id"`
	Email          string    `gorm:"column:email;uniqueIndex" json:"email"`
	SubscribedAt   time.Time `gorm:"column:subscribed_at" json:"subscribed_at"`
}

func (NewsletterSubscription) TableName() string { return "newsletter_subscriptions" }
