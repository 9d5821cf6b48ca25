package domain

import "time"

// ViewEvent tells the presentation layer that a cached view is stale.
type ViewEvent struct {
	Type string    `json:"type"`
	Path string    `json:"path"`
	Time time.Time `json:"time"`
}

const ViewEventInvalidate = "invalidate"
