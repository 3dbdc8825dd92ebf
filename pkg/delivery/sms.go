package delivery

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

// SNSService is the subset of the SNS client used for SMS
type SNSService interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// SMSSender sends text messages
type SMSSender interface {
	SendSMS(ctx context.Context, phone, body string) error
	Enabled() bool
}

// Texter publishes SMS through SNS
type Texter struct {
	client      SNSService
	countryCode string
	enabled     bool
}

// NewTexter returns a Texter. Ten digit numbers get countryCode prepended.
func NewTexter(client SNSService, countryCode string, enabled bool) *Texter {
	return &Texter{client: client, countryCode: countryCode, enabled: enabled && client != nil}
}

func (t *Texter) Enabled() bool {
	return t.enabled
}

// SendSMS publishes body to phone
func (t *Texter) SendSMS(ctx context.Context, phone, body string) error {
	if !t.enabled {
		return ErrDisabled
	}
	if phone == "" {
		return errors.New("sms recipient is empty")
	}
	if len(phone) == 10 {
		phone = t.countryCode + phone
	}

	_, err := t.client.Publish(ctx, &sns.PublishInput{
		PhoneNumber: aws.String(phone),
		Message:     aws.String(body),
	})
	if err != nil {
		return fmt.Errorf("sns publish: %w", err)
	}
	return nil
}
