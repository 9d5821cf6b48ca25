package domain

import "time"

// UserSession is a verified end-user session. A zero ExpiresAt means the
// backend did not report one.
type UserSession struct {
	UserID    string
	ExpiresAt time.Time
}
