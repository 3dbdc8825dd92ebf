package service

import (
	"context"
	"errors"
	"time"

	"mauryavansham-service/internal/apperrors"
	"mauryavansham-service/internal/model"
	"mauryavansham-service/pkg/delivery"
	"mauryavansham-service/prometheus"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SMS is an optional text message attached to an event
type SMS struct {
	Phone string
	Body  string
}

// Event is one logical occurrence that fans out into an in-app
// notification plus optional email and SMS.
type Event struct {
	Type      string
	UserID    uint
	SenderID  uint
	Title     string
	Message   string
	RelatedID uint
	Email     *delivery.Email
	SMS       *SMS
}

// NotificationView is a notification with its read state for one user
type NotificationView struct {
	model.Notification
	Read bool `json:"read" gorm:"column:is_read"`
}

// NotificationService persists notifications and schedules their delivery
type NotificationService struct {
	db     *gorm.DB
	queue  Enqueuer
	mailer delivery.EmailSender
	texter delivery.SMSSender
	log    *zap.Logger
}

// NewNotificationService wires the dispatcher. mailer and texter may be
// disabled senders; queue must be started.
func NewNotificationService(db *gorm.DB, queue Enqueuer, mailer delivery.EmailSender, texter delivery.SMSSender, log *zap.Logger) *NotificationService {
	return &NotificationService{db: db, queue: queue, mailer: mailer, texter: texter, log: log}
}

// Dispatch persists the notification and schedules delivery. It fails only
// when the row cannot be written.
func (s *NotificationService) Dispatch(ctx context.Context, ev Event) (*model.Notification, error) {
	n, err := s.Record(s.db.WithContext(ctx), ev)
	if err != nil {
		return nil, err
	}
	s.Deliver(ctx, n, ev)
	return n, nil
}

// Record writes the notification row using tx, which may be a transaction
func (s *NotificationService) Record(tx *gorm.DB, ev Event) (*model.Notification, error) {
	if ev.UserID == 0 {
		return nil, apperrors.Validation("Notification recipient is required")
	}
	if ev.Type == "" {
		return nil, apperrors.Validation("Notification type is required")
	}

	n := &model.Notification{
		UserID:      ev.UserID,
		SenderID:    ev.SenderID,
		Type:        ev.Type,
		Title:       ev.Title,
		Message:     ev.Message,
		RelatedID:   ev.RelatedID,
		EmailStatus: model.EmailStatusDisabled,
	}
	if ev.Email != nil && ev.Email.To != "" && s.mailer != nil && s.mailer.Enabled() {
		n.EmailStatus = model.EmailStatusQueued
	}

	defer prometheus.TrackDBOperation("insert_notification")(time.Now())
	if err := tx.Create(n).Error; err != nil {
		return nil, err
	}
	prometheus.NotificationsCounter.WithLabelValues(ev.Type).Inc()
	return n, nil
}

// Deliver schedules email and SMS for an already persisted notification.
// Failures are logged and recorded on the row, never returned.
func (s *NotificationService) Deliver(ctx context.Context, n *model.Notification, ev Event) {
	log := logFor(ctx, s.log).With(zap.Uint("notification_id", n.ID), zap.String("type", n.Type))

	if n.EmailStatus == model.EmailStatusQueued {
		msg := *ev.Email
		ok := s.queue.Enqueue(delivery.Job{
			Kind: "email:" + n.Type,
			Run: func(jobCtx context.Context) error {
				return s.sendEmail(jobCtx, n.ID, msg)
			},
		})
		if !ok {
			log.Warn("Email not queued")
			prometheus.RecordDelivery("email", "dropped")
			s.setEmailStatus(context.Background(), n.ID, model.EmailStatusFailed)
			n.EmailStatus = model.EmailStatusFailed
		}
	}

	if ev.SMS != nil && ev.SMS.Phone != "" && s.texter != nil && s.texter.Enabled() {
		sms := *ev.SMS
		ok := s.queue.Enqueue(delivery.Job{
			Kind: "sms:" + n.Type,
			Run: func(jobCtx context.Context) error {
				if err := s.texter.SendSMS(jobCtx, sms.Phone, sms.Body); err != nil {
					prometheus.RecordDelivery("sms", "failed")
					return err
				}
				prometheus.RecordDelivery("sms", "sent")
				return nil
			},
		})
		if !ok {
			log.Warn("SMS not queued")
			prometheus.RecordDelivery("sms", "dropped")
		}
	}
}

func (s *NotificationService) sendEmail(ctx context.Context, notificationID uint, msg delivery.Email) error {
	err := s.mailer.SendEmail(ctx, msg)
	status := model.EmailStatusSent
	switch {
	case errors.Is(err, delivery.ErrDisabled):
		status = model.EmailStatusDisabled
	case err != nil:
		status = model.EmailStatusFailed
	}
	prometheus.RecordDelivery("email", status)
	s.setEmailStatus(ctx, notificationID, status)
	return err
}

func (s *NotificationService) setEmailStatus(ctx context.Context, id uint, status string) {
	err := s.db.WithContext(ctx).Model(&model.Notification{}).
		Where("id = ?", id).
		Update("email_status", status).Error
	if err != nil {
		s.log.Error("Failed to record email status",
			zap.Uint("notification_id", id),
			zap.String("email_status", status),
			zap.Error(err))
	}
}

// readCondition matches notifications of n that the user has read
const readCondition = `EXISTS (SELECT 1 FROM notification_reads r WHERE r.user_id = notifications.user_id AND (r.notification_id = notifications.id OR (r.mark_all = ? AND r.read_at >= notifications.created_at)))`

// List returns a page of the user's notifications, newest first
func (s *NotificationService) List(ctx context.Context, userID uint, page Page, unreadOnly bool) ([]NotificationView, Pagination, error) {
	page = page.Normalize()
	defer prometheus.TrackDBOperation("query_notifications")(time.Now())

	base := func() *gorm.DB {
		q := s.db.WithContext(ctx).Model(&model.Notification{}).Where("notifications.user_id = ?", userID)
		if unreadOnly {
			q = q.Where("NOT "+readCondition, true)
		}
		return q
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, Pagination{}, apperrors.Internal(err)
	}

	var views []NotificationView
	err := base().Select("notifications.*, "+readCondition+" AS is_read", true).
		Order("notifications.created_at desc, notifications.id desc").
		Limit(page.Limit).
		Offset(page.Offset()).
		Scan(&views).Error
	if err != nil {
		return nil, Pagination{}, apperrors.Internal(err)
	}
	return views, newPagination(page, total), nil
}

// UnreadCount counts the user's unread notifications
func (s *NotificationService) UnreadCount(ctx context.Context, userID uint) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&model.Notification{}).
		Where("notifications.user_id = ?", userID).
		Where("NOT "+readCondition, true).
		Count(&n).Error
	if err != nil {
		return 0, apperrors.Internal(err)
	}
	return n, nil
}

// MarkRead marks one of the user's notifications read
func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID uint) error {
	db := s.db.WithContext(ctx)

	var n model.Notification
	if err := db.Where("id = ? AND user_id = ?", notificationID, userID).First(&n).Error; err != nil {
		return notFoundOr(err, "Notification")
	}

	read := model.NotificationRead{UserID: userID, NotificationID: &n.ID, ReadAt: time.Now()}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&read).Error; err != nil {
		return apperrors.Internal(err)
	}
	return nil
}

// MarkAllRead marks everything the user has received so far as read
func (s *NotificationService) MarkAllRead(ctx context.Context, userID uint) error {
	read := model.NotificationRead{UserID: userID, MarkAll: true, ReadAt: time.Now()}
	if err := s.db.WithContext(ctx).Create(&read).Error; err != nil {
		return apperrors.Internal(err)
	}
	logFor(ctx, s.log).Info("Marked all notifications read", zap.Uint("user_id", userID))
	return nil
}
