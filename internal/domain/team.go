package domain

import (
	"encoding/json"
	"time"
)

// Team is a fantasy team as seen by the presentation layer.
type Team struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	UserID     *string         `json:"userId,omitempty"`
	LogoURL    *string         `json:"logoUrl"`
	LogoConfig json.RawMessage `json:"logoConfig"`
	CDate      time.Time       `json:"cdate"`
}

// TeamLogoUpdate replaces both logo fields of a team at once. A nil LogoURL
// or empty LogoConfig clears the respective column.
type TeamLogoUpdate struct {
	TeamID     string          `json:"teamId"`
	LogoURL    *string         `json:"logoUrl"`
	LogoConfig json.RawMessage `json:"logoConfig"`
}
