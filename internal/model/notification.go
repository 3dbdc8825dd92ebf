package model

import (
	"time"
)

// Notification types
const (
	NotificationInterest         = "interest"
	NotificationInterestAccepted = "interest_accepted"
	NotificationInterestDeclined = "interest_declined"
	NotificationBusinessEnquiry  = "business_enquiry"
	NotificationDiscussionReply  = "discussion_reply"
	NotificationAnnouncement     = "announcement"
)

// Email delivery statuses recorded on a notification
const (
	EmailStatusQueued   = "queued"
	EmailStatusSent     = "sent"
	EmailStatusFailed   = "failed"
	EmailStatusDisabled = "disabled"
)

// Notification is an in-app alert for UserID caused by SenderID
type Notification struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	UserID      uint      `json:"userId" gorm:"index;not null"`
	SenderID    uint      `json:"senderId" gorm:"index"`
	Type        string    `json:"type" gorm:"type:varchar(30);not null;index"`
	Title       string    `json:"title" gorm:"type:varchar(150)"`
	Message     string    `json:"message" gorm:"type:text"`
	RelatedID   uint      `json:"relatedId,omitempty"`
	EmailStatus string    `json:"emailStatus" gorm:"type:varchar(20);default:'disabled'"`
	CreatedAt   time.Time `json:"createdAt" gorm:"index"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// NotificationRead is the read ledger. A row with MarkAll set marks every
// notification created at or before ReadAt as read for UserID.
type NotificationRead struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	UserID         uint      `json:"userId" gorm:"not null;index;uniqueIndex:idx_read_user_notification"`
	NotificationID *uint     `json:"notificationId,omitempty" gorm:"uniqueIndex:idx_read_user_notification"`
	MarkAll        bool      `json:"markAll" gorm:"default:false"`
	ReadAt         time.Time `json:"readAt" gorm:"index"`
}
