package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"mauryavansham-service/internal/apperrors"
	"mauryavansham-service/internal/model"
	"mauryavansham-service/internal/validation"
	"mauryavansham-service/pkg/delivery"
	"mauryavansham-service/prometheus"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Interest responses
const (
	ActionAccept   = "accept"
	ActionDecline  = "decline"
	ActionWithdraw = "withdraw"
)

// ExpressInterestRequest carries one expression of interest. SenderUserID
// comes from the authenticated session, never from the request body.
type ExpressInterestRequest struct {
	SenderUserID      uint
	SenderProfileID   uint
	ReceiverUserID    uint
	ReceiverProfileID uint
	SenderSnapshot    model.SenderSnapshot
	Message           string
}

// ExpressInterestResult identifies what was written
type ExpressInterestResult struct {
	InterestID     uint `json:"interestId"`
	NotificationID uint `json:"notificationId"`
	Reopened       bool `json:"reopened"`
}

// InterestService runs the interest workflow
type InterestService struct {
	db            *gorm.DB
	notifications *NotificationService
	log           *zap.Logger
}

func NewInterestService(db *gorm.DB, notifications *NotificationService, log *zap.Logger) *InterestService {
	return &InterestService{db: db, notifications: notifications, log: log}
}

// ExpressInterest validates the request, writes the interest and the
// receiver's notification in one transaction, then schedules the email.
func (s *InterestService) ExpressInterest(ctx context.Context, req ExpressInterestRequest) (*ExpressInterestResult, error) {
	log := logFor(ctx, s.log).With(
		zap.Uint("sender_profile_id", req.SenderProfileID),
		zap.Uint("receiver_profile_id", req.ReceiverProfileID),
	)
	prometheus.RecordOperation("interest", "express")
	db := s.db.WithContext(ctx)

	req.Message = strings.TrimSpace(req.Message)
	if err := validation.Comment(req.Message, false); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	var owned int64
	if err := db.Model(&model.Profile{}).
		Where("user_id = ? AND is_active = ? AND is_deleted = ?", req.SenderUserID, true, false).
		Count(&owned).Error; err != nil {
		return nil, apperrors.Internal(err)
	}
	if owned == 0 {
		log.Info("Sender has no profiles", zap.Uint("sender_user_id", req.SenderUserID))
		return nil, apperrors.NoProfile()
	}

	var sender model.Profile
	if err := db.First(&sender, req.SenderProfileID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.Forbidden("You can only express interest from your own profile")
		}
		return nil, apperrors.Internal(err)
	}
	if sender.UserID != req.SenderUserID || !sender.Listable() {
		log.Warn("Sender profile not owned by caller", zap.Uint("owner_id", sender.UserID), zap.Uint("sender_user_id", req.SenderUserID))
		return nil, apperrors.Forbidden("You can only express interest from your own profile")
	}

	var receiver model.Profile
	if err := db.First(&receiver, req.ReceiverProfileID).Error; err != nil {
		return nil, notFoundOr(err, "Profile")
	}
	if !receiver.Listable() {
		return nil, apperrors.NotFound("Profile")
	}
	if req.ReceiverUserID != 0 && req.ReceiverUserID != receiver.UserID {
		return nil, apperrors.Validation("receiverUserId does not own the receiver profile")
	}
	if receiver.UserID == req.SenderUserID {
		return nil, apperrors.Validation("You cannot express interest in your own profile")
	}

	snapshot := mergeSnapshot(req.SenderSnapshot, &sender)

	var (
		interest     model.Interest
		notification *model.Notification
		reopened     bool
	)
	ev := Event{
		Type:     model.NotificationInterest,
		UserID:   receiver.UserID,
		SenderID: req.SenderUserID,
		Title:    "New interest received",
		Message:  fmt.Sprintf("%s has expressed interest in your profile %s", snapshot.Name, receiver.Name),
	}
	if to := receiverEmail(db, &receiver); to != "" {
		html, err := delivery.RenderInterestEmail(delivery.InterestEmailData{
			ReceiverName:     receiver.Name,
			SenderName:       snapshot.Name,
			SenderCity:       snapshot.City,
			SenderState:      snapshot.State,
			SenderFatherName: snapshot.FatherName,
			SenderDOB:        snapshot.DOB,
			Message:          req.Message,
		})
		if err != nil {
			log.Error("Failed to render interest email", zap.Error(err))
		} else {
			ev.Email = &delivery.Email{To: to, Subject: "Someone is interested in your profile", HTML: html}
		}
	}

	start := time.Now()
	err := db.Transaction(func(tx *gorm.DB) error {
		var existing model.Interest
		err := tx.Where("sender_profile_id = ? AND receiver_profile_id = ?", req.SenderProfileID, req.ReceiverProfileID).
			First(&existing).Error
		switch {
		case err == nil && existing.Status.Open():
			return apperrors.Duplicate()
		case err == nil:
			existing.Status = model.InterestPending
			existing.SenderProfile = snapshot
			existing.Message = req.Message
			existing.RespondedAt = nil
			if err := tx.Save(&existing).Error; err != nil {
				return err
			}
			interest = existing
			reopened = true
		case errors.Is(err, gorm.ErrRecordNotFound):
			interest = model.Interest{
				SenderUserID:      req.SenderUserID,
				SenderProfileID:   req.SenderProfileID,
				ReceiverUserID:    receiver.UserID,
				ReceiverProfileID: receiver.ID,
				Message:           req.Message,
				Status:            model.InterestPending,
				SenderProfile:     snapshot,
			}
			if err := tx.Create(&interest).Error; err != nil {
				return err
			}
		default:
			return err
		}

		ev.RelatedID = interest.ID
		n, err := s.notifications.Record(tx, ev)
		if err != nil {
			return err
		}
		notification = n
		return nil
	})
	prometheus.TrackDBOperation("express_interest")(start)

	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) || errors.Is(err, gorm.ErrDuplicatedKey) {
			prometheus.DuplicateInterestCounter.Inc()
			log.Info("Duplicate interest rejected")
			return nil, apperrors.Duplicate()
		}
		log.Error("Failed to record interest", zap.Error(err))
		return nil, apperrors.Internal(err)
	}

	s.notifications.Deliver(ctx, notification, ev)

	log.Info("Interest expressed",
		zap.Uint("interest_id", interest.ID),
		zap.Uint("notification_id", notification.ID),
		zap.Bool("reopened", reopened))

	return &ExpressInterestResult{InterestID: interest.ID, NotificationID: notification.ID, Reopened: reopened}, nil
}

// RespondToInterest moves a pending interest to accepted, declined or
// withdrawn. Only the receiver's account may accept or decline; only the
// sender's account may withdraw.
func (s *InterestService) RespondToInterest(ctx context.Context, actorUserID, interestID uint, action string) (*model.Interest, error) {
	log := logFor(ctx, s.log).With(zap.Uint("interest_id", interestID), zap.String("action", action))
	prometheus.RecordOperation("interest", action)
	db := s.db.WithContext(ctx)

	var next model.InterestStatus
	switch action {
	case ActionAccept:
		next = model.InterestAccepted
	case ActionDecline:
		next = model.InterestDeclined
	case ActionWithdraw:
		next = model.InterestWithdrawn
	default:
		return nil, apperrors.Validation("action must be one of accept, decline, withdraw")
	}

	var interest model.Interest
	if err := db.First(&interest, interestID).Error; err != nil {
		return nil, notFoundOr(err, "Interest")
	}

	if action == ActionWithdraw {
		if interest.SenderUserID != actorUserID {
			return nil, apperrors.Forbidden("Only the sender can withdraw this interest")
		}
	} else if interest.ReceiverUserID != actorUserID {
		return nil, apperrors.Forbidden("Only the receiver can respond to this interest")
	}

	if interest.Status != model.InterestPending {
		return nil, apperrors.Conflict(fmt.Sprintf("Interest is already %s", interest.Status))
	}

	var (
		notification *model.Notification
		ev           Event
	)
	now := time.Now()
	err := db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Interest{}).
			Where("id = ? AND status = ?", interest.ID, model.InterestPending).
			Updates(map[string]interface{}{"status": next, "responded_at": now})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperrors.Conflict("Interest was updated concurrently")
		}
		interest.Status = next
		interest.RespondedAt = &now

		if action == ActionWithdraw {
			return nil
		}

		var receiver model.Profile
		if err := tx.First(&receiver, interest.ReceiverProfileID).Error; err != nil {
			return err
		}
		ev = Event{
			Type:      model.NotificationInterestAccepted,
			UserID:    interest.SenderUserID,
			SenderID:  interest.ReceiverUserID,
			Title:     "Interest accepted",
			Message:   fmt.Sprintf("%s accepted your interest", receiver.Name),
			RelatedID: interest.ID,
		}
		if action == ActionDecline {
			ev.Type = model.NotificationInterestDeclined
			ev.Title = "Interest declined"
			ev.Message = fmt.Sprintf("%s declined your interest", receiver.Name)
		}
		n, err := s.notifications.Record(tx, ev)
		notification = n
		return err
	})
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		log.Error("Failed to respond to interest", zap.Error(err))
		return nil, apperrors.Internal(err)
	}

	if notification != nil {
		s.notifications.Deliver(ctx, notification, ev)
	}
	log.Info("Interest status changed", zap.String("status", string(next)))
	return &interest, nil
}

// ListReceived lists interests addressed to any of the user's profiles
func (s *InterestService) ListReceived(ctx context.Context, userID uint, status string, page Page) ([]model.Interest, Pagination, error) {
	return s.list(ctx, "receiver_user_id = ?", userID, status, page)
}

// ListSent lists interests sent from any of the user's profiles
func (s *InterestService) ListSent(ctx context.Context, userID uint, status string, page Page) ([]model.Interest, Pagination, error) {
	return s.list(ctx, "sender_user_id = ?", userID, status, page)
}

func (s *InterestService) list(ctx context.Context, where string, userID uint, status string, page Page) ([]model.Interest, Pagination, error) {
	page = page.Normalize()
	defer prometheus.TrackDBOperation("query_interests")(time.Now())

	base := func() *gorm.DB {
		q := s.db.WithContext(ctx).Model(&model.Interest{}).Where(where, userID)
		if status != "" {
			q = q.Where("status = ?", status)
		}
		return q
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, Pagination{}, apperrors.Internal(err)
	}

	var interests []model.Interest
	if err := base().Order("created_at desc, id desc").Limit(page.Limit).Offset(page.Offset()).Find(&interests).Error; err != nil {
		return nil, Pagination{}, apperrors.Internal(err)
	}
	return interests, newPagination(page, total), nil
}

// SentReceiverIDs returns the receiver profile ids the user already has an
// open interest with, so clients can disable the action after a reload.
func (s *InterestService) SentReceiverIDs(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	err := s.db.WithContext(ctx).Model(&model.Interest{}).
		Where("sender_user_id = ? AND status IN ?", userID, []model.InterestStatus{model.InterestPending, model.InterestAccepted}).
		Distinct().
		Pluck("receiver_profile_id", &ids).Error
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return ids, nil
}

// mergeSnapshot fills blank snapshot fields from the live sender profile
func mergeSnapshot(in model.SenderSnapshot, p *model.Profile) model.SenderSnapshot {
	fill := func(dst *string, v string) {
		if *dst == "" {
			*dst = v
		}
	}
	fill(&in.Name, p.Name)
	fill(&in.Email, p.Email)
	fill(&in.Phone, p.Phone)
	fill(&in.City, p.City)
	fill(&in.DOB, p.DOB)
	fill(&in.Address, p.Address)
	fill(&in.FatherName, p.FatherName)
	fill(&in.State, p.State)
	return in
}

// receiverEmail prefers the profile's contact email, then the owner account's
func receiverEmail(db *gorm.DB, p *model.Profile) string {
	if p.Email != "" {
		return p.Email
	}
	var u model.User
	if err := db.Select("email").First(&u, p.UserID).Error; err != nil {
		return ""
	}
	return u.Email
}
