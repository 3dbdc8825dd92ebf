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

// BusinessInput is the editable part of a listing
type BusinessInput struct {
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
	City        string   `json:"city"`
	State       string   `json:"state"`
	Phone       string   `json:"phone"`
	Email       string   `json:"email"`
	Website     string   `json:"website"`
	PremiumTier string   `json:"premiumTier"`
	Photos      []string `json:"photos"`
}

// BusinessFilter narrows the directory search
type BusinessFilter struct {
	Query    string
	Category string
	City     string
	Tier     string
}

// EnquiryResult identifies what an enquiry produced
type EnquiryResult struct {
	EnquiryID      uint `json:"enquiryId"`
	NotificationID uint `json:"notificationId"`
}

// BusinessService manages the business directory
type BusinessService struct {
	db            *gorm.DB
	notifications *NotificationService
	log           *zap.Logger
}

func NewBusinessService(db *gorm.DB, notifications *NotificationService, log *zap.Logger) *BusinessService {
	return &BusinessService{db: db, notifications: notifications, log: log}
}

func (in *BusinessInput) validate() error {
	errs := map[string]string{}
	if strings.TrimSpace(in.Name) == "" {
		errs["name"] = "Business name is required"
	}
	if strings.TrimSpace(in.Category) == "" {
		errs["category"] = "Category is required"
	}
	if in.Email != "" && !validation.Email(in.Email) {
		errs["email"] = "Valid email is required"
	}
	if in.Phone != "" && !validation.Phone(in.Phone) {
		errs["phone"] = "Phone must be 10 digits"
	}
	if in.PremiumTier == "" {
		in.PremiumTier = model.TierGeneral
	}
	if _, ok := model.TierPolicies[in.PremiumTier]; !ok {
		errs["premiumTier"] = "Unknown premium tier"
	}
	for _, u := range in.Photos {
		if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
			errs["photos"] = "Photos must be http(s) URLs"
			break
		}
	}
	if _, bad := errs["premiumTier"]; !bad {
		if quota := model.PolicyFor(in.PremiumTier).PhotoQuota; len(in.Photos) > quota {
			errs["photos"] = fmt.Sprintf("The %s tier allows at most %d photos", in.PremiumTier, quota)
		}
	}
	if len(errs) > 0 {
		return apperrors.ValidationFields(errs)
	}
	return nil
}

func (in *BusinessInput) apply(b *model.Business) {
	b.Name = strings.TrimSpace(in.Name)
	b.Category = in.Category
	b.Description = in.Description
	b.City = in.City
	b.State = in.State
	b.Phone = in.Phone
	b.Email = in.Email
	b.Website = in.Website
	b.PremiumTier = in.PremiumTier
	b.TierRank = model.PolicyFor(in.PremiumTier).Rank
}

func photoRows(urls []string) []model.BusinessPhoto {
	rows := make([]model.BusinessPhoto, 0, len(urls))
	for _, u := range urls {
		rows = append(rows, model.BusinessPhoto{URL: u})
	}
	return rows
}

// Create stores a pending listing owned by ownerID
func (s *BusinessService) Create(ctx context.Context, ownerID uint, in BusinessInput) (*model.Business, error) {
	prometheus.RecordOperation("business", "create")
	if err := in.validate(); err != nil {
		return nil, err
	}

	b := &model.Business{OwnerID: ownerID, Status: model.ListingPending}
	in.apply(b)
	b.Photos = photoRows(in.Photos)

	defer prometheus.TrackDBOperation("insert_business")(time.Now())
	if err := s.db.WithContext(ctx).Create(b).Error; err != nil {
		logFor(ctx, s.log).Error("Failed to create business", zap.Error(err))
		return nil, apperrors.Internal(err)
	}
	logFor(ctx, s.log).Info("Business created", zap.Uint("business_id", b.ID), zap.String("tier", b.PremiumTier))
	return b, nil
}

// Get returns a listing. Unapproved listings are visible to their owner only.
func (s *BusinessService) Get(ctx context.Context, viewerID, id uint) (*model.Business, error) {
	var b model.Business
	if err := s.db.WithContext(ctx).Preload("Photos").First(&b, id).Error; err != nil {
		return nil, notFoundOr(err, "Business")
	}
	if b.Status != model.ListingApproved && b.OwnerID != viewerID {
		return nil, apperrors.NotFound("Business")
	}
	return &b, nil
}

// Update replaces a listing's details and photos. The premium tier is kept
// as stored, so the photo quota is the one the admin granted. An edited
// approved listing goes back to pending for moderation.
func (s *BusinessService) Update(ctx context.Context, ownerID, id uint, in BusinessInput) (*model.Business, error) {
	prometheus.RecordOperation("business", "update")

	var b model.Business
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&b, id).Error; err != nil {
			return notFoundOr(err, "Business")
		}
		if b.OwnerID != ownerID {
			return apperrors.Forbidden("You can only edit your own listing")
		}
		in.PremiumTier = b.PremiumTier
		if err := in.validate(); err != nil {
			return err
		}
		in.apply(&b)
		if b.Status == model.ListingApproved {
			b.Status = model.ListingPending
		}
		if err := tx.Omit("Photos").Save(&b).Error; err != nil {
			return err
		}
		if err := tx.Where("business_id = ?", b.ID).Delete(&model.BusinessPhoto{}).Error; err != nil {
			return err
		}
		photos := photoRows(in.Photos)
		for i := range photos {
			photos[i].BusinessID = b.ID
		}
		if len(photos) > 0 {
			if err := tx.Create(&photos).Error; err != nil {
				return err
			}
		}
		b.Photos = photos
		return nil
	})
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		logFor(ctx, s.log).Error("Failed to update business", zap.Uint("business_id", id), zap.Error(err))
		return nil, apperrors.Internal(err)
	}
	return &b, nil
}

// SetStatus moderates a listing. A non-empty tier also changes its premium
// tier; listing owners cannot change the tier themselves.
func (s *BusinessService) SetStatus(ctx context.Context, id uint, status, tier string) (*model.Business, error) {
	if status != model.ListingApproved && status != model.ListingRejected && status != model.ListingPending {
		return nil, apperrors.Validation("status must be pending, approved or rejected")
	}
	if _, known := model.TierPolicies[tier]; tier != "" && !known {
		return nil, apperrors.Validation("Unknown premium tier")
	}

	var b model.Business
	db := s.db.WithContext(ctx)
	if err := db.Preload("Photos").First(&b, id).Error; err != nil {
		return nil, notFoundOr(err, "Business")
	}

	updates := map[string]interface{}{"status": status}
	if tier != "" && tier != b.PremiumTier {
		policy := model.PolicyFor(tier)
		if len(b.Photos) > policy.PhotoQuota {
			return nil, apperrors.Validation(fmt.Sprintf("The %s tier allows at most %d photos", tier, policy.PhotoQuota))
		}
		updates["premium_tier"] = tier
		updates["tier_rank"] = policy.Rank
	}
	if err := db.Model(&b).Updates(updates).Error; err != nil {
		return nil, apperrors.Internal(err)
	}
	b.Status = status
	if t, ok := updates["premium_tier"].(string); ok {
		b.PremiumTier = t
		b.TierRank = model.PolicyFor(t).Rank
	}
	prometheus.RecordOperation("business", status)
	logFor(ctx, s.log).Info("Business moderated",
		zap.Uint("business_id", id),
		zap.String("status", status),
		zap.String("tier", b.PremiumTier))
	return &b, nil
}

// Search lists approved listings, premium tiers first
func (s *BusinessService) Search(ctx context.Context, f BusinessFilter, page Page) ([]model.Business, Pagination, error) {
	page = page.Normalize()
	defer prometheus.TrackDBOperation("search_business")(time.Now())

	base := func() *gorm.DB {
		q := s.db.WithContext(ctx).Model(&model.Business{}).Where("status = ?", model.ListingApproved)
		if f.Category != "" {
			q = q.Where("category = ?", f.Category)
		}
		if f.City != "" {
			q = q.Where("LOWER(city) = ?", strings.ToLower(f.City))
		}
		if f.Tier != "" {
			q = q.Where("premium_tier = ?", f.Tier)
		}
		if term := strings.TrimSpace(f.Query); term != "" {
			like := "%" + strings.ToLower(term) + "%"
			q = q.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ? OR LOWER(category) LIKE ?", like, like, like)
		}
		return q
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, Pagination{}, apperrors.Internal(err)
	}

	list := []model.Business{}
	if err := base().Preload("Photos").
		Order("tier_rank asc, created_at desc, id desc").
		Limit(page.Limit).
		Offset(page.Offset()).
		Find(&list).Error; err != nil {
		return nil, Pagination{}, apperrors.Internal(err)
	}
	return list, newPagination(page, total), nil
}

// Enquire records a member's enquiry, notifies the owner in-app and by
// email, and by SMS when the listing's tier includes it.
func (s *BusinessService) Enquire(ctx context.Context, senderID, businessID uint, comment string) (*EnquiryResult, error) {
	log := logFor(ctx, s.log).With(zap.Uint("business_id", businessID))
	prometheus.RecordOperation("business", "enquiry")

	if err := validation.Comment(comment, true); err != nil {
		return nil, apperrors.Validation(err.Error())
	}
	comment = strings.TrimSpace(comment)

	db := s.db.WithContext(ctx)
	var b model.Business
	if err := db.First(&b, businessID).Error; err != nil {
		return nil, notFoundOr(err, "Business")
	}
	if b.Status != model.ListingApproved {
		return nil, apperrors.NotFound("Business")
	}
	if b.OwnerID == senderID {
		return nil, apperrors.Validation("You cannot send an enquiry to your own listing")
	}

	var sender model.User
	if err := db.First(&sender, senderID).Error; err != nil {
		return nil, notFoundOr(err, "User")
	}

	ev := Event{
		Type:     model.NotificationBusinessEnquiry,
		UserID:   b.OwnerID,
		SenderID: senderID,
		Title:    "New business enquiry",
		Message:  fmt.Sprintf("%s sent an enquiry about %s", sender.Name, b.Name),
	}
	policy := model.PolicyFor(b.PremiumTier)
	if policy.Email {
		to := b.Email
		if to == "" {
			var owner model.User
			if err := db.Select("email").First(&owner, b.OwnerID).Error; err == nil {
				to = owner.Email
			}
		}
		html, err := delivery.RenderEnquiryEmail(delivery.EnquiryEmailData{
			BusinessName: b.Name,
			SenderName:   sender.Name,
			SenderEmail:  sender.Email,
			Comment:      comment,
		})
		if err != nil {
			log.Error("Failed to render enquiry email", zap.Error(err))
		} else if to != "" {
			ev.Email = &delivery.Email{To: to, Subject: "New enquiry for " + b.Name, HTML: html, Text: comment}
		}
	}
	if policy.SMS && b.Phone != "" {
		ev.SMS = &SMS{Phone: b.Phone, Body: fmt.Sprintf("Mauryavansham: new enquiry for %s from %s", b.Name, sender.Name)}
	}

	var (
		enquiry model.BusinessEnquiry
		n       *model.Notification
	)
	err := db.Transaction(func(tx *gorm.DB) error {
		enquiry = model.BusinessEnquiry{BusinessID: b.ID, SenderID: senderID, Comment: comment}
		if err := tx.Create(&enquiry).Error; err != nil {
			return err
		}
		ev.RelatedID = enquiry.ID
		var err error
		n, err = s.notifications.Record(tx, ev)
		return err
	})
	if err != nil {
		log.Error("Failed to record enquiry", zap.Error(err))
		return nil, apperrors.Internal(err)
	}

	s.notifications.Deliver(ctx, n, ev)
	log.Info("Business enquiry sent", zap.Uint("enquiry_id", enquiry.ID), zap.String("tier", b.PremiumTier))
	return &EnquiryResult{EnquiryID: enquiry.ID, NotificationID: n.ID}, nil
}
