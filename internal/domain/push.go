package domain

import (
	"encoding/json"
	"time"
)

// PushSubscription is a browser push descriptor registered by a user. The
// descriptor is opaque to the server apart from its endpoint.
type PushSubscription struct {
	UserID       string          `json:"userId"`
	Subscription json.RawMessage `json:"subscription"`
	Key          string          `json:"-"`
	CDate        time.Time       `json:"cdate"`
	MDate        time.Time       `json:"mdate"`
}
