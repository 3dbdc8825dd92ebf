package delivery

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

// NewAWSClients loads the default AWS credential chain for region and
// returns SES and SNS clients sharing it.
func NewAWSClients(ctx context.Context, region string) (*ses.Client, *sns.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, nil, fmt.Errorf("load AWS config: %w", err)
	}
	return ses.NewFromConfig(cfg), sns.NewFromConfig(cfg), nil
}
