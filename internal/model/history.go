package model

import (
	"time"

	"gorm.io/gorm"
)

type RerouteStatus string

const (
	StatusSuccess RerouteStatus = "SUCCESS"
	StatusFailed  RerouteStatus = "FAILED"
)

type History struct {
	gorm.Model
	Status  RerouteStatus `gorm:"not null;index"`
	Trigger Trigger       `gorm:"not null"`
	SrcPath string        `gorm:"not null"`
	DstPath string        `gorm:"not null"`
	Size    int64
	ErrMsg  string
	MovedAt time.Time `gorm:"not null;index"`
}
