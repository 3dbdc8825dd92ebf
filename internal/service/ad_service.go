package service

import (
	"context"
	"strings"
	"time"

	"mauryavansham-service/internal/apperrors"
	"mauryavansham-service/internal/model"
	"mauryavansham-service/prometheus"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AdInput is what an admin submits for a new ad
type AdInput struct {
	Title        string     `json:"title"`
	ImageURL     string     `json:"imageUrl"`
	TargetURL    string     `json:"targetUrl"`
	Placement    string     `json:"placement"`
	DisplayOrder int        `json:"displayOrder"`
	StartsAt     *time.Time `json:"startsAt"`
	EndsAt       *time.Time `json:"endsAt"`
}

// AdService serves ad placements and counts impressions
type AdService struct {
	db  *gorm.DB
	log *zap.Logger
	now func() time.Time
}

func NewAdService(db *gorm.DB, log *zap.Logger) *AdService {
	return &AdService{db: db, log: log, now: time.Now}
}

// Create stores a pending ad
func (s *AdService) Create(ctx context.Context, adminID uint, in AdInput) (*model.Ad, error) {
	errs := map[string]string{}
	if strings.TrimSpace(in.Title) == "" {
		errs["title"] = "Title is required"
	}
	if !strings.HasPrefix(in.ImageURL, "http://") && !strings.HasPrefix(in.ImageURL, "https://") {
		errs["imageUrl"] = "Image must be an http(s) URL"
	}
	if strings.TrimSpace(in.Placement) == "" {
		errs["placement"] = "Placement is required"
	}
	if in.StartsAt != nil && in.EndsAt != nil && !in.EndsAt.After(*in.StartsAt) {
		errs["endsAt"] = "End must be after start"
	}
	if len(errs) > 0 {
		return nil, apperrors.ValidationFields(errs)
	}

	ad := &model.Ad{
		Title:        strings.TrimSpace(in.Title),
		ImageURL:     in.ImageURL,
		TargetURL:    in.TargetURL,
		Placement:    in.Placement,
		Status:       model.ListingPending,
		DisplayOrder: in.DisplayOrder,
		StartsAt:     in.StartsAt,
		EndsAt:       in.EndsAt,
		CreatedBy:    adminID,
	}
	if err := s.db.WithContext(ctx).Create(ad).Error; err != nil {
		return nil, apperrors.Internal(err)
	}
	prometheus.RecordOperation("ad", "create")
	return ad, nil
}

// SetStatus approves or rejects an ad
func (s *AdService) SetStatus(ctx context.Context, id uint, status string) (*model.Ad, error) {
	if status != model.ListingApproved && status != model.ListingRejected && status != model.ListingPending {
		return nil, apperrors.Validation("status must be pending, approved or rejected")
	}
	var ad model.Ad
	db := s.db.WithContext(ctx)
	if err := db.First(&ad, id).Error; err != nil {
		return nil, notFoundOr(err, "Ad")
	}
	if err := db.Model(&ad).Update("status", status).Error; err != nil {
		return nil, apperrors.Internal(err)
	}
	return &ad, nil
}

// Active returns approved ads for a placement that are inside their
// window, in rotation order.
func (s *AdService) Active(ctx context.Context, placement string) ([]model.Ad, error) {
	defer prometheus.TrackDBOperation("query_ads")(time.Now())

	now := s.now()
	q := s.db.WithContext(ctx).
		Where("status = ?", model.ListingApproved).
		Where("starts_at IS NULL OR starts_at <= ?", now).
		Where("ends_at IS NULL OR ends_at > ?", now)
	if placement != "" {
		q = q.Where("placement = ?", placement)
	}

	ads := []model.Ad{}
	if err := q.Order("display_order asc, id asc").Find(&ads).Error; err != nil {
		return nil, apperrors.Internal(err)
	}
	return ads, nil
}

// RecordView counts one impression. The increment happens in the database
// so concurrent carousels never lose a view.
func (s *AdService) RecordView(ctx context.Context, id uint) (int64, error) {
	db := s.db.WithContext(ctx)

	var ad model.Ad
	if err := db.Select("id", "placement", "status").First(&ad, id).Error; err != nil {
		return 0, notFoundOr(err, "Ad")
	}
	if ad.Status != model.ListingApproved {
		return 0, apperrors.NotFound("Ad")
	}

	res := db.Model(&model.Ad{}).Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + ?", 1))
	if res.Error != nil {
		return 0, apperrors.Internal(res.Error)
	}

	var count int64
	if err := db.Model(&model.Ad{}).Where("id = ?", id).Pluck("view_count", &count).Error; err != nil {
		return 0, apperrors.Internal(err)
	}
	prometheus.AdViewsCounter.WithLabelValues(ad.Placement).Inc()
	return count, nil
}
