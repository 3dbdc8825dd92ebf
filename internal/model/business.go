package model

import (
	"time"

	"gorm.io/gorm"
)

// Premium tiers for business listings
const (
	TierPlatinum = "platinum"
	TierGold     = "gold"
	TierSilver   = "silver"
	TierGeneral  = "general"
)

// Listing moderation statuses, shared by businesses and ads
const (
	ListingPending  = "pending"
	ListingApproved = "approved"
	ListingRejected = "rejected"
)

// TierPolicy is what a premium tier unlocks
type TierPolicy struct {
	PhotoQuota int
	Email      bool
	SMS        bool
	Rank       int
}

// TierPolicies is the tier lookup table. Unknown tiers fall back to general.
// Rank starts at 1 so no tier stores a zero value.
var TierPolicies = map[string]TierPolicy{
	TierPlatinum: {PhotoQuota: 10, Email: true, SMS: true, Rank: 1},
	TierGold:     {PhotoQuota: 6, Email: true, SMS: true, Rank: 2},
	TierSilver:   {PhotoQuota: 3, Email: true, SMS: false, Rank: 3},
	TierGeneral:  {PhotoQuota: 1, Email: false, SMS: false, Rank: 4},
}

// PolicyFor returns the policy for a tier
func PolicyFor(tier string) TierPolicy {
	if p, ok := TierPolicies[tier]; ok {
		return p
	}
	return TierPolicies[TierGeneral]
}

// Business is a business directory listing
type Business struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	OwnerID     uint            `json:"ownerId" gorm:"index;not null"`
	Name        string          `json:"name" gorm:"type:varchar(150);index;not null"`
	Category    string          `json:"category" gorm:"type:varchar(50);index"`
	Description string          `json:"description" gorm:"type:text"`
	City        string          `json:"city" gorm:"type:varchar(50);index"`
	State       string          `json:"state" gorm:"type:varchar(50)"`
	Phone       string          `json:"phone" gorm:"type:varchar(20)"`
	Email       string          `json:"email" gorm:"type:varchar(100)"`
	Website     string          `json:"website" gorm:"type:varchar(255)"`
	PremiumTier string          `json:"premiumTier" gorm:"type:varchar(20);not null;default:'general';index"`
	TierRank    int             `json:"-" gorm:"not null;index"`
	Photos      []BusinessPhoto `json:"photos" gorm:"foreignKey:BusinessID"`
	Status      string          `json:"status" gorm:"type:varchar(20);not null;default:'pending';index"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt  `json:"-" gorm:"index"`
}

// BusinessPhoto is one photo URL of a listing
type BusinessPhoto struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	BusinessID uint      `json:"businessId" gorm:"index;not null"`
	URL        string    `json:"url" gorm:"type:varchar(500);not null"`
	CreatedAt  time.Time `json:"createdAt"`
}

// BusinessEnquiry is a message sent by a member to a listing owner
type BusinessEnquiry struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	BusinessID uint      `json:"businessId" gorm:"index;not null"`
	SenderID   uint      `json:"senderId" gorm:"index;not null"`
	Comment    string    `json:"comment" gorm:"type:text;not null"`
	CreatedAt  time.Time `json:"createdAt"`
}
