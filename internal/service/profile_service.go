package service

import (
	"context"
	"strings"
	"time"

	"mauryavansham-service/internal/apperrors"
	"mauryavansham-service/internal/model"
	"mauryavansham-service/internal/profilewizard"
	"mauryavansham-service/pkg/cache"
	"mauryavansham-service/prometheus"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// BrowseFilter narrows the public profile listing
type BrowseFilter struct {
	ViewerUserID  uint
	Gender        string
	City          string
	State         string
	MaritalStatus string
	MinAge        int
	MaxAge        int
	Query         string
}

// ProfileService stores matrimonial profiles
type ProfileService struct {
	db    *gorm.DB
	cache *cache.RedisClient
	ttl   time.Duration
	log   *zap.Logger
	now   func() time.Time
}

// NewProfileService creates the store. cache may be nil.
func NewProfileService(db *gorm.DB, c *cache.RedisClient, ttl time.Duration, log *zap.Logger) *ProfileService {
	return &ProfileService{db: db, cache: c, ttl: ttl, log: log, now: time.Now}
}

// ValidateStep checks one wizard section
func (s *ProfileService) ValidateStep(step profilewizard.Step, data map[string]interface{}) profilewizard.Result {
	return profilewizard.Advance(step, data, s.now())
}

// Create validates every wizard section and stores the profile for userID
func (s *ProfileService) Create(ctx context.Context, userID uint, p *model.Profile) (*model.Profile, error) {
	log := logFor(ctx, s.log)
	prometheus.RecordOperation("profile", "create")

	p.ID = 0
	p.UserID = userID
	p.IsDeleted = false
	p.IsVerified = false
	p.IsPremium = false
	p.IsActive = true
	if err := s.prepare(p); err != nil {
		return nil, err
	}

	defer prometheus.TrackDBOperation("insert_profile")(time.Now())
	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		log.Error("Failed to create profile", zap.Uint("user_id", userID), zap.Error(err))
		return nil, apperrors.Internal(err)
	}
	s.invalidate(ctx, userID)

	log.Info("Profile created", zap.Uint("profile_id", p.ID), zap.Uint("user_id", userID))
	return p, nil
}

// Get returns a visible profile by id
func (s *ProfileService) Get(ctx context.Context, id uint) (*model.Profile, error) {
	defer prometheus.TrackDBOperation("query_profile")(time.Now())

	var p model.Profile
	if err := s.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, notFoundOr(err, "Profile")
	}
	if !p.Listable() {
		return nil, apperrors.NotFound("Profile")
	}
	return &p, nil
}

// Update replaces the editable fields of a profile the caller owns
func (s *ProfileService) Update(ctx context.Context, userID, id uint, in *model.Profile) (*model.Profile, error) {
	log := logFor(ctx, s.log)
	prometheus.RecordOperation("profile", "update")

	existing, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	in.ID = existing.ID
	in.UserID = existing.UserID
	in.IsVerified = existing.IsVerified
	in.IsPremium = existing.IsPremium
	in.IsActive = existing.IsActive
	in.IsDeleted = false
	in.CreatedAt = existing.CreatedAt
	if err := s.prepare(in); err != nil {
		return nil, err
	}

	defer prometheus.TrackDBOperation("update_profile")(time.Now())
	if err := s.db.WithContext(ctx).Save(in).Error; err != nil {
		log.Error("Failed to update profile", zap.Uint("profile_id", id), zap.Error(err))
		return nil, apperrors.Internal(err)
	}
	s.invalidate(ctx, userID)

	log.Info("Profile updated", zap.Uint("profile_id", id))
	return in, nil
}

// Delete hides a profile. Rows are kept so interest history stays intact.
func (s *ProfileService) Delete(ctx context.Context, userID, id uint) error {
	prometheus.RecordOperation("profile", "delete")
	if _, err := s.owned(ctx, userID, id); err != nil {
		return err
	}

	defer prometheus.TrackDBOperation("delete_profile")(time.Now())
	err := s.db.WithContext(ctx).Model(&model.Profile{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"is_deleted": true, "is_active": false}).Error
	if err != nil {
		return apperrors.Internal(err)
	}
	s.invalidate(ctx, userID)

	logFor(ctx, s.log).Info("Profile deleted", zap.Uint("profile_id", id))
	return nil
}

// ListByOwner returns the user's visible profiles, served from the cache when warm
func (s *ProfileService) ListByOwner(ctx context.Context, userID uint) ([]model.Profile, error) {
	log := logFor(ctx, s.log)
	key := cache.OwnProfilesKey(userID)

	var profiles []model.Profile
	hit, err := s.cache.GetJSON(ctx, key, &profiles)
	if err != nil {
		log.Warn("Profile cache read failed", zap.String("key", key), zap.Error(err))
	}
	if hit {
		return profiles, nil
	}

	defer prometheus.TrackDBOperation("query_own_profiles")(time.Now())
	profiles = []model.Profile{}
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND is_active = ? AND is_deleted = ?", userID, true, false).
		Order("created_at asc, id asc").
		Find(&profiles).Error; err != nil {
		return nil, apperrors.Internal(err)
	}

	if err := s.cache.SetJSON(ctx, key, profiles, s.ttl); err != nil {
		log.Warn("Profile cache write failed", zap.String("key", key), zap.Error(err))
	}
	return profiles, nil
}

// Browse lists other members' visible profiles
func (s *ProfileService) Browse(ctx context.Context, f BrowseFilter, page Page) ([]model.Profile, Pagination, error) {
	page = page.Normalize()
	defer prometheus.TrackDBOperation("browse_profiles")(time.Now())

	now := s.now()
	base := func() *gorm.DB {
		q := s.db.WithContext(ctx).Model(&model.Profile{}).
			Where("is_active = ? AND is_deleted = ?", true, false)
		if f.ViewerUserID != 0 {
			q = q.Where("user_id <> ?", f.ViewerUserID)
		}
		if f.Gender != "" {
			q = q.Where("gender = ?", f.Gender)
		}
		if f.City != "" {
			q = q.Where("LOWER(city) = ?", strings.ToLower(f.City))
		}
		if f.State != "" {
			q = q.Where("LOWER(state) = ?", strings.ToLower(f.State))
		}
		if f.MaritalStatus != "" {
			q = q.Where("marital_status = ?", f.MaritalStatus)
		}
		// dob is YYYY-MM-DD so string comparison orders by date
		if f.MinAge > 0 {
			q = q.Where("dob <= ?", now.AddDate(-f.MinAge, 0, 0).Format("2006-01-02"))
		}
		if f.MaxAge > 0 {
			q = q.Where("dob > ?", now.AddDate(-(f.MaxAge + 1), 0, 0).Format("2006-01-02"))
		}
		if term := strings.TrimSpace(f.Query); term != "" {
			like := "%" + strings.ToLower(term) + "%"
			q = q.Where("LOWER(name) LIKE ? OR LOWER(occupation) LIKE ? OR LOWER(city) LIKE ? OR LOWER(gotra) LIKE ?", like, like, like, like)
		}
		return q
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, Pagination{}, apperrors.Internal(err)
	}

	profiles := []model.Profile{}
	if err := base().
		Order("is_premium desc, created_at desc, id desc").
		Limit(page.Limit).
		Offset(page.Offset()).
		Find(&profiles).Error; err != nil {
		return nil, Pagination{}, apperrors.Internal(err)
	}
	return profiles, newPagination(page, total), nil
}

func (s *ProfileService) owned(ctx context.Context, userID, id uint) (*model.Profile, error) {
	var p model.Profile
	if err := s.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, notFoundOr(err, "Profile")
	}
	if p.IsDeleted {
		return nil, apperrors.NotFound("Profile")
	}
	if p.UserID != userID {
		return nil, apperrors.Forbidden("You can only modify your own profiles")
	}
	return &p, nil
}

// prepare derives gender and runs every wizard section
func (s *ProfileService) prepare(p *model.Profile) error {
	if p.ProfileRelation == "" {
		p.ProfileRelation = model.RelationMyself
	}
	p.Gender = profilewizard.DeriveGender(p.ProfileRelation, p.Gender)
	if p.ProfileRelation != model.RelationOther {
		p.CustomRelation = ""
	}

	data, err := profilewizard.FromProfile(p)
	if err != nil {
		return apperrors.Internal(err)
	}
	if errs := profilewizard.ValidateAll(data, s.now()); len(errs) > 0 {
		return apperrors.ValidationFields(errs)
	}
	return nil
}

func (s *ProfileService) invalidate(ctx context.Context, userID uint) {
	if err := s.cache.Del(ctx, cache.OwnProfilesKey(userID)); err != nil {
		logFor(ctx, s.log).Warn("Profile cache invalidation failed", zap.Uint("user_id", userID), zap.Error(err))
	}
}
