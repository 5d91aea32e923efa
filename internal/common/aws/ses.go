// internal/common/aws/ses.go
package aws

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

// SESAPI is the subset of the SES client used for raw report delivery.
type SESAPI interface {
	SendRawEmail(ctx context.Context, params *ses.SendRawEmailInput, optFns ...func(*ses.Options)) (*ses.SendRawEmailOutput, error)
}

type SESClient struct {
	client SESAPI
}

func NewSESClient(ctx context.Context, region string) (*SESClient, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, err
	}
	return &SESClient{client: ses.NewFromConfig(cfg)}, nil
}

// NewSESClientWithAPI wraps an existing SES implementation.
func NewSESClientWithAPI(api SESAPI) *SESClient {
	return &SESClient{client: api}
}

// SendRaw sends a fully composed MIME message and returns the SES message ID.
func (s *SESClient) SendRaw(ctx context.Context, from string, to []string, msg []byte) (string, error) {
	out, err := s.client.SendRawEmail(ctx, &ses.SendRawEmailInput{
		Source:       &from,
		Destinations: to,
		RawMessage:   &types.RawMessage{Data: msg},
	})
	if err != nil {
		return "", err
	}
	if out.MessageId == nil {
		return "", nil
	}
	return *out.MessageId, nil
}
