package service

import (
	"context"
	"testing"
	"time"

	"mauryavansham-service/internal/apperrors"
	"mauryavansham-service/internal/model"
	"mauryavansham-service/internal/profilewizard"
	"mauryavansham-service/internal/testutil"
	"mauryavansham-service/pkg/cache"
	"mauryavansham-service/pkg/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newProfileService(t *testing.T) (*ProfileService, *miniredis.Miniredis) {
	t.Helper()
	db := testutil.NewDB(t)
	mr := miniredis.RunT(t)
	rc := cache.NewRedis(config.RedisConfig{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rc.Close() })

	s := NewProfileService(db, rc, time.Minute, zap.NewNop())
	s.now = func() time.Time { return time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC) }
	return s, mr
}

func validProfile() *model.Profile {
	return &model.Profile{
		ProfileRelation:  model.RelationSon,
		Name:             "Vikram",
		Email:            "vikram@example.com",
		Phone:            "9876501234",
		DOB:              "1994-08-01",
		Gender:           model.GenderFemale,
		Height:           `5'10"`,
		MaritalStatus:    "Never Married",
		City:             "Gaya",
		State:            "Bihar",
		FatherName:       "Suresh",
		MotherName:       "Kamla",
		FamilyType:       "Nuclear",
		HighestEducation: "M.Sc",
		Occupation:       "Teacher",
		Diet:             "Vegetarian",
	}
}

func TestProfileCreate_DerivesGenderAndValidates(t *testing.T) {
	s, _ := newProfileService(t)
	ctx := context.Background()

	p, err := s.Create(ctx, 42, validProfile())
	require.NoError(t, err)
	assert.Equal(t, model.GenderMale, p.Gender, "son implies male")
	assert.True(t, p.IsActive)
	assert.Equal(t, uint(42), p.UserID)

	bad := validProfile()
	bad.Phone = "123"
	bad.MaritalStatus = "Married"
	_, err = s.Create(ctx, 42, bad)
	require.ErrorIs(t, err, apperrors.ErrValidation)
	fields := apperrors.FieldErrors(err)
	assert.Contains(t, fields, "phone")
	assert.Contains(t, fields, "spouseName")
}

func TestProfileListByOwner_CachesAndInvalidates(t *testing.T) {
	s, mr := newProfileService(t)
	ctx := context.Background()

	first, err := s.Create(ctx, 42, validProfile())
	require.NoError(t, err)

	list, err := s.ListByOwner(ctx, 42)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, mr.Exists(cache.OwnProfilesKey(42)))

	// a write behind the service's back is hidden by the cache
	require.NoError(t, s.db.Model(&model.Profile{}).Where("id = ?", first.ID).Update("name", "Changed").Error)
	list, err = s.ListByOwner(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, "Vikram", list[0].Name)

	second := validProfile()
	second.ProfileRelation = model.RelationDaughter
	second.Name = "Meera"
	_, err = s.Create(ctx, 42, second)
	require.NoError(t, err)
	assert.False(t, mr.Exists(cache.OwnProfilesKey(42)))

	list, err = s.ListByOwner(ctx, 42)
	require.NoError(t, err)
	assert.Len(t, list, 2)
	assert.Equal(t, "Changed", list[0].Name)
}

func TestProfileListByOwner_EmptyIsNotNil(t *testing.T) {
	s, _ := newProfileService(t)
	list, err := s.ListByOwner(context.Background(), 55)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestProfileUpdateAndDelete_Ownership(t *testing.T) {
	s, _ := newProfileService(t)
	ctx := context.Background()

	p, err := s.Create(ctx, 42, validProfile())
	require.NoError(t, err)

	edit := validProfile()
	edit.City = "Nalanda"
	_, err = s.Update(ctx, 43, p.ID, edit)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	updated, err := s.Update(ctx, 42, p.ID, edit)
	require.NoError(t, err)
	assert.Equal(t, "Nalanda", updated.City)
	assert.Equal(t, p.CreatedAt.Unix(), updated.CreatedAt.Unix())

	assert.ErrorIs(t, s.Delete(ctx, 43, p.ID), apperrors.ErrForbidden)
	require.NoError(t, s.Delete(ctx, 42, p.ID))

	_, err = s.Get(ctx, p.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	var row model.Profile
	require.NoError(t, s.db.First(&row, p.ID).Error, "soft delete keeps the row")
	assert.True(t, row.IsDeleted)
	assert.False(t, row.IsActive)

	list, err := s.ListByOwner(ctx, 42)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestProfileBrowse_Filters(t *testing.T) {
	s, _ := newProfileService(t)
	ctx := context.Background()

	mk := func(owner uint, name, gender, dob, city string) {
		p := validProfile()
		p.ProfileRelation = model.RelationMyself
		p.Name, p.Gender, p.DOB, p.City = name, gender, dob, city
		_, err := s.Create(ctx, owner, p)
		require.NoError(t, err)
	}
	mk(1, "Viewer", "male", "1990-01-01", "Patna")
	mk(2, "Anita", "female", "1998-03-01", "Patna") // 27
	mk(3, "Bina", "female", "1985-03-01", "Gaya")   // 40
	mk(4, "Chetan", "male", "2000-01-01", "Patna")  // 25

	list, pg, err := s.Browse(ctx, BrowseFilter{ViewerUserID: 1}, Page{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), pg.Total, "viewer's own profile is excluded")
	assert.Len(t, list, 3)

	list, _, err = s.Browse(ctx, BrowseFilter{ViewerUserID: 1, Gender: "female", City: "patna"}, Page{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Anita", list[0].Name)

	list, _, err = s.Browse(ctx, BrowseFilter{ViewerUserID: 1, MinAge: 26, MaxAge: 35}, Page{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Anita", list[0].Name)

	list, _, err = s.Browse(ctx, BrowseFilter{ViewerUserID: 1, Query: "CHET"}, Page{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Chetan", list[0].Name)

	list, pg, err = s.Browse(ctx, BrowseFilter{ViewerUserID: 1}, Page{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, 2, pg.TotalPages)
}

func TestProfileValidateStep(t *testing.T) {
	s, _ := newProfileService(t)
	r := s.ValidateStep(profilewizard.StepFamily, map[string]interface{}{"fatherName": "Ram"})
	assert.False(t, r.CanAdvance)
	assert.Contains(t, r.Errors, "motherName")
}
