package model

import (
	"time"
)

// Ad is an approved banner shown in a named placement slot
type Ad struct {
	ID           uint       `json:"id" gorm:"primaryKey"`
	Title        string     `json:"title" gorm:"type:varchar(150);not null"`
	ImageURL     string     `json:"imageUrl" gorm:"type:varchar(500);not null"`
	TargetURL    string     `json:"targetUrl" gorm:"type:varchar(500)"`
	Placement    string     `json:"placement" gorm:"type:varchar(50);not null;index"`
	Status       string     `json:"status" gorm:"type:varchar(20);not null;default:'pending';index"`
	DisplayOrder int        `json:"displayOrder" gorm:"default:0"`
	ViewCount    int64      `json:"viewCount" gorm:"default:0"`
	StartsAt     *time.Time `json:"startsAt,omitempty"`
	EndsAt       *time.Time `json:"endsAt,omitempty"`
	CreatedBy    uint       `json:"createdBy" gorm:"index"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}
