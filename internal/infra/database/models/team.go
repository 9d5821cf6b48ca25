package models

import (
	"time"
)

type Team struct {
	ID         string    `json:"id" gorm:"primaryKey;type:text"`
	Name       string    `json:"name" gorm:"type:text;not null"`
	UserID     *string   `json:"userId" gorm:"type:text;index"`
	LogoURL    *string   `json:"logoUrl" gorm:"type:text"`
	LogoConfig *string   `json:"logoConfig" gorm:"type:text"`
	CDate      time.Time `json:"cdate" gorm:"->;<-:create;type:timestamp with time zone;not null;default:clock_timestamp()"`
	MDate      time.Time `json:"mdate" gorm:"type:timestamp with time zone;not null;autoUpdateTime"`
}
