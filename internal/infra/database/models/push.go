package models

import (
	"time"
)

type PushSubscription struct {
	ID              int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID          string    `json:"userId" gorm:"type:text;not null;uniqueIndex:push_subscription_user_key"`
	SubscriptionKey string    `json:"subscriptionKey" gorm:"type:text;not null;uniqueIndex:push_subscription_user_key"`
	Subscription    string    `json:"subscription" gorm:"type:text;not null"`
	CDate           time.Time `json:"cdate" gorm:"->;<-:create;type:timestamp with time zone;not null;default:clock_timestamp()"`
	MDate           time.Time `json:"mdate" gorm:"type:timestamp with time zone;not null;autoUpdateTime"`
}
