package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"

	"github.com/angelmondragon/marketplace-backend/pkg/config"
)

type smsPublisher interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// SNSSender sends codes as transactional SMS through Amazon SNS.
type SNSSender struct {
	client   smsPublisher
	senderID string
}

func NewSNSSender(ctx context.Context, cfg config.AWSConfig, senderID string) (*SNSSender, error) {
	opts := []func(*awsconfig.LoadOptions) error{}
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return &SNSSender{client: sns.NewFromConfig(awsCfg), senderID: senderID}, nil
}

func (s *SNSSender) SendOTP(ctx context.Context, mobile, code string, ttl time.Duration) error {
	attrs := map[string]types.MessageAttributeValue{
		"AWS.SNS.SMS.SMSType": {
			DataType:    aws.String("String"),
			StringValue: aws.String("Transactional"),
		},
	}
	if s.senderID != "" {
		attrs["AWS.SNS.SMS.SenderID"] = types.MessageAttributeValue{
			DataType:    aws.String("String"),
			StringValue: aws.String(s.senderID),
		}
	}

	_, err := s.client.Publish(ctx, &sns.PublishInput{
		PhoneNumber:       aws.String(e164(mobile)),
		Message:           aws.String(message(code, ttl)),
		MessageAttributes: attrs,
	})
	if err != nil {
		return fmt.Errorf("sns publish sms: %w", err)
	}
	return nil
}

func e164(mobile string) string {
	mobile = strings.TrimSpace(mobile)
	if strings.HasPrefix(mobile, "+") {
		return mobile
	}
	return "+" + mobile
}
