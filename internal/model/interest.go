package model

import (
	"time"
)

// InterestStatus is the lifecycle state of an interest record
type InterestStatus string

const (
	InterestPending   InterestStatus = "pending"
	InterestAccepted  InterestStatus = "accepted"
	InterestDeclined  InterestStatus = "declined"
	InterestWithdrawn InterestStatus = "withdrawn"
)

// Open reports whether the status blocks a new expression for the same pair
func (s InterestStatus) Open() bool {
	return s == InterestPending || s == InterestAccepted
}

// SenderSnapshot is the sender's identity as it looked when interest was
// expressed. It is historical and not kept in sync with the live profile.
type SenderSnapshot struct {
	Name       string `json:"name" gorm:"column:sender_name;type:varchar(100)"`
	Email      string `json:"email" gorm:"column:sender_email;type:varchar(100)"`
	Phone      string `json:"phone" gorm:"column:sender_phone;type:varchar(20)"`
	City       string `json:"city" gorm:"column:sender_city;type:varchar(50)"`
	DOB        string `json:"dob" gorm:"column:sender_dob;type:varchar(10)"`
	Address    string `json:"address" gorm:"column:sender_address;type:text"`
	FatherName string `json:"fatherName" gorm:"column:sender_father_name;type:varchar(100)"`
	State      string `json:"state" gorm:"column:sender_state;type:varchar(50)"`
}

// Interest is a directed expression of interest from one profile to another.
// The (sender_profile_id, receiver_profile_id) pair is unique.
type Interest struct {
	ID                uint           `json:"id" gorm:"primaryKey"`
	SenderUserID      uint           `json:"senderUserId" gorm:"index;not null"`
	SenderProfileID   uint           `json:"senderProfileId" gorm:"not null;uniqueIndex:idx_interest_pair"`
	ReceiverUserID    uint           `json:"receiverUserId" gorm:"index;not null"`
	ReceiverProfileID uint           `json:"receiverProfileId" gorm:"not null;uniqueIndex:idx_interest_pair;index"`
	Message           string         `json:"message,omitempty" gorm:"type:text"`
	Status            InterestStatus `json:"status" gorm:"type:varchar(20);not null;default:'pending';index"`
	SenderProfile     SenderSnapshot `json:"senderProfile" gorm:"embedded"`
	RespondedAt       *time.Time     `json:"respondedAt,omitempty"`
	CreatedAt         time.Time      `json:"createdAt"`
	UpdatedAt         time.Time      `json:"updatedAt"`
}
