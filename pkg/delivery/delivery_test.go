package delivery

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockSESService struct {
	SendEmailFunc func(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

func (m *MockSESService) SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	return m.SendEmailFunc(ctx, params, optFns...)
}

type MockSNSService struct {
	PublishFunc func(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

func (m *MockSNSService) Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
	return m.PublishFunc(ctx, params, optFns...)
}

func TestMailer_SendEmail(t *testing.T) {
	var got *ses.SendEmailInput
	client := &MockSESService{
		SendEmailFunc: func(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
			got = params
			return &ses.SendEmailOutput{}, nil
		},
	}

	m := NewMailer(client, "noreply@example.com", true)
	require.True(t, m.Enabled())

	err := m.SendEmail(context.Background(), Email{To: "r@example.com", Subject: "Hi", HTML: "<p>x</p>"})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, []string{"r@example.com"}, got.Destination.ToAddresses)
	assert.Equal(t, "noreply@example.com", *got.Source)
	assert.Equal(t, "Hi", *got.Message.Subject.Data)
	assert.Equal(t, "<p>x</p>", *got.Message.Body.Text.Data, "text falls back to html")
}

func TestMailer_Disabled(t *testing.T) {
	called := false
	client := &MockSESService{
		SendEmailFunc: func(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
			called = true
			return nil, nil
		},
	}

	assert.ErrorIs(t, NewMailer(client, "f", false).SendEmail(context.Background(), Email{To: "x@y.z"}), ErrDisabled)
	assert.ErrorIs(t, NewMailer(nil, "f", true).SendEmail(context.Background(), Email{To: "x@y.z"}), ErrDisabled)
	assert.False(t, called)
}

func TestMailer_ProviderError(t *testing.T) {
	client := &MockSESService{
		SendEmailFunc: func(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
			return nil, errors.New("throttled")
		},
	}
	err := NewMailer(client, "f", true).SendEmail(context.Background(), Email{To: "x@y.z"})
	assert.ErrorContains(t, err, "throttled")
}

func TestTexter_PrefixesCountryCode(t *testing.T) {
	var phone string
	client := &MockSNSService{
		PublishFunc: func(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
			phone = *params.PhoneNumber
			return &sns.PublishOutput{}, nil
		},
	}

	tx := NewTexter(client, "+91", true)
	require.NoError(t, tx.SendSMS(context.Background(), "9876543210", "hello"))
	assert.Equal(t, "+919876543210", phone)

	require.NoError(t, tx.SendSMS(context.Background(), "+449876543210", "hello"))
	assert.Equal(t, "+449876543210", phone)

	assert.ErrorIs(t, NewTexter(client, "+91", false).SendSMS(context.Background(), "1", "x"), ErrDisabled)
}

func TestQueue_RunsAndDrains(t *testing.T) {
	q := NewQueue(10, 2, time.Second, zap.NewNop())
	q.Start()

	var n int32
	for i := 0; i < 5; i++ {
		ok := q.Enqueue(Job{Kind: "test", Run: func(ctx context.Context) error {
			atomic.AddInt32(&n, 1)
			return nil
		}})
		require.True(t, ok)
	}

	q.Close()
	assert.Equal(t, int32(5), atomic.LoadInt32(&n))
	assert.False(t, q.Enqueue(Job{Kind: "late", Run: func(ctx context.Context) error { return nil }}))

	// closing twice is harmless
	q.Close()
}

func TestQueue_CloseRunsBacklog(t *testing.T) {
	q := NewQueue(3, 1, time.Second, zap.NewNop())

	var n int32
	for i := 0; i < 3; i++ {
		require.True(t, q.Enqueue(Job{Kind: "backlog", Run: func(ctx context.Context) error {
			atomic.AddInt32(&n, 1)
			return nil
		}}))
	}

	q.Start()
	q.Close()
	assert.Equal(t, int32(3), atomic.LoadInt32(&n))
}

func TestQueue_RejectsWhenFull(t *testing.T) {
	q := NewQueue(1, 1, time.Second, nil)
	// workers not started, so the single slot fills
	noop := Job{Kind: "x", Run: func(ctx context.Context) error { return nil }}
	assert.True(t, q.Enqueue(noop))
	assert.False(t, q.Enqueue(noop))

	q.Start()
	q.Close()
}

func TestQueue_SurvivesPanicAndError(t *testing.T) {
	q := NewQueue(4, 1, 0, zap.NewNop())
	q.Start()

	var ran int32
	q.Enqueue(Job{Kind: "panic", Run: func(ctx context.Context) error { panic("boom") }})
	q.Enqueue(Job{Kind: "err", Run: func(ctx context.Context) error { return errors.New("nope") }})
	q.Enqueue(Job{Kind: "ok", Run: func(ctx context.Context) error {
		atomic.AddInt32(&ran, 1)
		return nil
	}})

	q.Close()
	assert.Equal(t, int32(1), atomic.LoadInt32(&ran))
}

func TestQueue_AppliesTimeout(t *testing.T) {
	q := NewQueue(1, 1, 10*time.Millisecond, zap.NewNop())
	q.Start()

	var deadline atomic.Bool
	q.Enqueue(Job{Kind: "slow", Run: func(ctx context.Context) error {
		_, ok := ctx.Deadline()
		deadline.Store(ok)
		<-ctx.Done()
		return ctx.Err()
	}})
	q.Close()
	assert.True(t, deadline.Load())
}

func TestRenderInterestEmail(t *testing.T) {
	html, err := RenderInterestEmail(InterestEmailData{
		ReceiverName: "Priya",
		SenderName:   "Rahul <script>",
		SenderCity:   "Patna",
		Message:      "Namaste",
	})
	require.NoError(t, err)
	assert.Contains(t, html, "Dear Priya")
	assert.Contains(t, html, "Patna")
	assert.Contains(t, html, "Namaste")
	assert.False(t, strings.Contains(html, "<script>"), "sender input is escaped")
	assert.NotContains(t, html, "Father's name</td>")
}

func TestRenderEnquiryEmail(t *testing.T) {
	html, err := RenderEnquiryEmail(EnquiryEmailData{BusinessName: "Maurya Sweets", SenderName: "Amit", Comment: "Do you cater?"})
	require.NoError(t, err)
	assert.Contains(t, html, "Maurya Sweets")
	assert.Contains(t, html, "Do you cater?")
}
