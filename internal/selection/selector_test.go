package selection

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"mauryavansham-service/pkg/client"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeAPI struct {
	mu          sync.Mutex
	profiles    []client.Profile
	listErr     error
	expressErrs []error
	lists       int
	posts       []client.InterestRequest
}

func (f *fakeAPI) ListOwnProfiles(ctx context.Context, userID uint) ([]client.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists++
	return f.profiles, f.listErr
}

func (f *fakeAPI) ExpressInterest(ctx context.Context, receiverProfileID uint, req client.InterestRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.posts = append(f.posts, req)
	if len(f.expressErrs) == 0 {
		return nil
	}
	err := f.expressErrs[0]
	f.expressErrs = f.expressErrs[1:]
	return err
}

var asha = client.Profile{ID: 7, UserID: 42, Name: "Asha", Email: "asha@x.com", City: "Patna"}

func TestHappyPath(t *testing.T) {
	api := &fakeAPI{profiles: []client.Profile{asha}}
	s := New(api, 42, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, s.Open(ctx, Target{ProfileID: 99, UserID: 81}))
	assert.Equal(t, Selecting, s.State())
	assert.False(t, s.Empty())

	require.NoError(t, s.Choose(ctx, 7, ""))
	assert.Equal(t, Sent, s.State())
	assert.True(t, s.IsSent(99))
	assert.False(t, s.IsSent(100))

	require.Len(t, api.posts, 1)
	assert.Equal(t, uint(42), api.posts[0].SenderUserID)
	assert.Equal(t, uint(81), api.posts[0].ReceiverUserID)
	assert.Equal(t, "Asha", api.posts[0].SenderProfile.Name)

	assert.ErrorIs(t, s.Open(ctx, Target{ProfileID: 99, UserID: 81}), ErrAlreadySent)
}

func TestZeroProfilesNeverPosts(t *testing.T) {
	api := &fakeAPI{}
	s := New(api, 42, zap.NewNop())

	require.NoError(t, s.Open(context.Background(), Target{ProfileID: 99, UserID: 81}))
	assert.Equal(t, Selecting, s.State())
	assert.True(t, s.Empty())

	assert.ErrorIs(t, s.Choose(context.Background(), 7, ""), ErrNoProfiles)
	assert.Empty(t, api.posts)
	assert.Equal(t, "Create at least one profile to express interest", EmptyStateMessage)
}

func TestProfilesFetchedOncePerSession(t *testing.T) {
	api := &fakeAPI{profiles: []client.Profile{asha}}
	s := New(api, 42, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, s.Open(ctx, Target{ProfileID: 99, UserID: 81}))
	assert.True(t, s.Cancel())
	assert.Equal(t, Idle, s.State())
	require.NoError(t, s.Open(ctx, Target{ProfileID: 100, UserID: 82}))

	assert.Equal(t, 1, api.lists)
	assert.Empty(t, api.posts, "cancel has no side effects")
}

func TestDuplicateMarksSent(t *testing.T) {
	api := &fakeAPI{
		profiles:    []client.Profile{asha},
		expressErrs: []error{&client.APIError{Status: http.StatusConflict, Message: "Interest already sent"}},
	}
	s := New(api, 42, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, s.Open(ctx, Target{ProfileID: 99, UserID: 81}))
	err := s.Choose(ctx, 7, "")
	require.Error(t, err)
	assert.Equal(t, Sent, s.State())
	assert.True(t, s.IsSent(99))
	assert.Equal(t, "Interest already sent", s.LastError())
}

func TestFailureAllowsRetry(t *testing.T) {
	api := &fakeAPI{
		profiles:    []client.Profile{asha},
		expressErrs: []error{&client.APIError{Status: http.StatusInternalServerError, Message: "Something went wrong"}},
	}
	s := New(api, 42, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, s.Open(ctx, Target{ProfileID: 99, UserID: 81}))
	require.Error(t, s.Choose(ctx, 7, ""))
	assert.Equal(t, Failed, s.State())
	assert.False(t, s.IsSent(99))
	assert.Equal(t, "Something went wrong", s.LastError())

	require.NoError(t, s.Choose(ctx, 7, ""))
	assert.Equal(t, Sent, s.State())
	assert.Len(t, api.posts, 2)
}

func TestChooseValidation(t *testing.T) {
	api := &fakeAPI{profiles: []client.Profile{asha}}
	s := New(api, 42, zap.NewNop())
	ctx := context.Background()

	assert.Error(t, s.Choose(ctx, 7, ""), "nothing is open yet")

	require.NoError(t, s.Open(ctx, Target{ProfileID: 99, UserID: 81}))
	assert.ErrorIs(t, s.Choose(ctx, 8, ""), ErrUnknownProfile)
	assert.Equal(t, Selecting, s.State())
	assert.Empty(t, api.posts)
}

func TestFetchFailure(t *testing.T) {
	api := &fakeAPI{listErr: errors.New("offline")}
	s := New(api, 42, zap.NewNop())
	ctx := context.Background()

	require.Error(t, s.Open(ctx, Target{ProfileID: 99, UserID: 81}))
	assert.Equal(t, Failed, s.State())
	assert.Error(t, s.Choose(ctx, 7, ""), "profiles never loaded")

	api.listErr = nil
	api.profiles = []client.Profile{asha}
	require.NoError(t, s.Open(ctx, Target{ProfileID: 99, UserID: 81}))
	assert.Equal(t, Selecting, s.State())
	assert.Equal(t, 2, api.lists)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "fetchingProfiles", FetchingProfiles.String())
	assert.Equal(t, "state(9)", State(9).String())
}
