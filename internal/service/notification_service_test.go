package service

import (
	"context"
	"testing"
	"time"

	"mauryavansham-service/internal/apperrors"
	"mauryavansham-service/internal/model"
	"mauryavansham-service/pkg/delivery"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type rejectingQueue struct{}

func (rejectingQueue) Enqueue(delivery.Job) bool { return false }

func TestDispatch_PersistsAndSends(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	n, err := env.notifications.Dispatch(ctx, Event{
		Type:    model.NotificationAnnouncement,
		UserID:  5,
		Title:   "Hello",
		Message: "Community meet on Sunday",
		Email:   &delivery.Email{To: "member@example.com", Subject: "Meet"},
		SMS:     &SMS{Phone: "9876543210", Body: "Meet"},
	})
	require.NoError(t, err)
	assert.Equal(t, model.EmailStatusQueued, n.EmailStatus)

	env.drain()
	assert.Len(t, env.mailer.Sent(), 1)
	assert.Equal(t, []string{"9876543210"}, env.texter.phones)

	var stored model.Notification
	require.NoError(t, env.db.First(&stored, n.ID).Error)
	assert.Equal(t, model.EmailStatusSent, stored.EmailStatus)
}

func TestDispatch_RequiresRecipientAndType(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.notifications.Dispatch(context.Background(), Event{Type: model.NotificationAnnouncement})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	_, err = env.notifications.Dispatch(context.Background(), Event{UserID: 1})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestDeliver_QueueFullMarksFailed(t *testing.T) {
	env := newTestEnv(t)
	ns := NewNotificationService(env.db, rejectingQueue{}, env.mailer, env.texter, zap.NewNop())

	n, err := ns.Dispatch(context.Background(), Event{
		Type:   model.NotificationInterest,
		UserID: 9,
		Email:  &delivery.Email{To: "x@example.com"},
	})
	require.NoError(t, err, "a dropped email never fails the dispatch")
	assert.Equal(t, model.EmailStatusFailed, n.EmailStatus)

	var stored model.Notification
	require.NoError(t, env.db.First(&stored, n.ID).Error)
	assert.Equal(t, model.EmailStatusFailed, stored.EmailStatus)
}

func TestReadLedger(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	var ids []uint
	for i := 0; i < 3; i++ {
		n, err := env.notifications.Dispatch(ctx, Event{Type: model.NotificationAnnouncement, UserID: 5, Title: "n"})
		require.NoError(t, err)
		ids = append(ids, n.ID)
	}
	_, err := env.notifications.Dispatch(ctx, Event{Type: model.NotificationAnnouncement, UserID: 6})
	require.NoError(t, err)

	count, err := env.notifications.UnreadCount(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	require.NoError(t, env.notifications.MarkRead(ctx, 5, ids[0]))
	require.NoError(t, env.notifications.MarkRead(ctx, 5, ids[0]), "marking twice is harmless")
	count, err = env.notifications.UnreadCount(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	err = env.notifications.MarkRead(ctx, 6, ids[1])
	assert.ErrorIs(t, err, apperrors.ErrNotFound, "cannot mark another user's notification")

	views, pg, err := env.notifications.List(ctx, 5, Page{}, false)
	require.NoError(t, err)
	assert.Equal(t, int64(3), pg.Total)
	require.Len(t, views, 3)
	readByID := map[uint]bool{}
	for _, v := range views {
		readByID[v.ID] = v.Read
	}
	assert.True(t, readByID[ids[0]])
	assert.False(t, readByID[ids[1]])

	require.NoError(t, env.notifications.MarkAllRead(ctx, 5))
	count, err = env.notifications.UnreadCount(ctx, 5)
	require.NoError(t, err)
	assert.Zero(t, count)

	time.Sleep(5 * time.Millisecond)
	_, err = env.notifications.Dispatch(ctx, Event{Type: model.NotificationAnnouncement, UserID: 5})
	require.NoError(t, err)

	unread, pg, err := env.notifications.List(ctx, 5, Page{}, true)
	require.NoError(t, err)
	assert.Equal(t, int64(1), pg.Total)
	require.Len(t, unread, 1)
	assert.False(t, unread[0].Read)

	other, err := env.notifications.UnreadCount(ctx, 6)
	require.NoError(t, err)
	assert.Equal(t, int64(1), other)
}
