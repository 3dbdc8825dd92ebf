package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"mauryavansham-service/internal/testutil"
	"mauryavansham-service/pkg/delivery"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fakeMailer struct {
	mu      sync.Mutex
	enabled bool
	err     error
	sent    []delivery.Email
}

func (f *fakeMailer) Enabled() bool { return f.enabled }

func (f *fakeMailer) SendEmail(ctx context.Context, msg delivery.Email) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

func (f *fakeMailer) Sent() []delivery.Email {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]delivery.Email(nil), f.sent...)
}

type fakeTexter struct {
	mu      sync.Mutex
	enabled bool
	phones  []string
}

func (f *fakeTexter) Enabled() bool { return f.enabled }

func (f *fakeTexter) SendSMS(ctx context.Context, phone, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.phones = append(f.phones, phone)
	return nil
}

type testEnv struct {
	db            *gorm.DB
	queue         *delivery.Queue
	mailer        *fakeMailer
	texter        *fakeTexter
	notifications *NotificationService
	interests     *InterestService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.NewDB(t)
	q := delivery.NewQueue(16, 1, time.Second, zap.NewNop())
	q.Start()
	t.Cleanup(q.Close)

	mailer := &fakeMailer{enabled: true}
	texter := &fakeTexter{enabled: true}
	ns := NewNotificationService(db, q, mailer, texter, zap.NewNop())
	return &testEnv{
		db:            db,
		queue:         q,
		mailer:        mailer,
		texter:        texter,
		notifications: ns,
		interests:     NewInterestService(db, ns, zap.NewNop()),
	}
}

// drain waits for every queued delivery to finish
func (e *testEnv) drain() {
	e.queue.Close()
}
