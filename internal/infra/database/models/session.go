package models

import (
	"time"
)

// UserSession is an end-user session issued by the auth backend. Only the
// SHA-256 of the token is stored.
type UserSession struct {
	TokenHash string    `json:"-" gorm:"primaryKey;type:text"`
	UserID    string    `json:"userId" gorm:"type:text;not null;index"`
	ExpiresAt time.Time `json:"expiresAt" gorm:"type:timestamp with time zone;not null;index"`
	CDate     time.Time `json:"cdate" gorm:"->;<-:create;type:timestamp with time zone;not null;default:clock_timestamp()"`
}
