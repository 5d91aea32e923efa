package aws

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockSES struct {
	mock.Mock
}

func (m *mockSES) SendRawEmail(ctx context.Context, params *ses.SendRawEmailInput, optFns ...func(*ses.Options)) (*ses.SendRawEmailOutput, error) {
	args := m.Called(ctx, params)
	if out := args.Get(0); out != nil {
		return out.(*ses.SendRawEmailOutput), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockSNS struct {
	mock.Mock
}

func (m *mockSNS) Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
	args := m.Called(ctx, params)
	if out := args.Get(0); out != nil {
		return out.(*sns.PublishOutput), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestSESClient_SendRaw(t *testing.T) {
	api := &mockSES{}
	id := "ses-123"
	api.On("SendRawEmail", mock.Anything, mock.MatchedBy(func(in *ses.SendRawEmailInput) bool {
		return *in.Source == "from@example.com" &&
			len(in.Destinations) == 1 && in.Destinations[0] == "to@example.com" &&
			string(in.RawMessage.Data) == "raw"
	})).Return(&ses.SendRawEmailOutput{MessageId: &id}, nil)

	got, err := NewSESClientWithAPI(api).SendRaw(context.Background(), "from@example.com", []string{"to@example.com"}, []byte("raw"))

	require.NoError(t, err)
	assert.Equal(t, "ses-123", got)
	api.AssertExpectations(t)
}

func TestSESClient_SendRawError(t *testing.T) {
	api := &mockSES{}
	api.On("SendRawEmail", mock.Anything, mock.Anything).Return(nil, errors.New("throttled"))

	_, err := NewSESClientWithAPI(api).SendRaw(context.Background(), "a@b.io", []string{"c@d.io"}, nil)

	assert.EqualError(t, err, "throttled")
}

func TestSNSClient_PublishJSON(t *testing.T) {
	api := &mockSNS{}
	api.On("Publish", mock.Anything, mock.MatchedBy(func(in *sns.PublishInput) bool {
		return *in.TopicArn == "arn:aws:sns:us-east-1:1:leads" && *in.Message == `{"tier":"enterprise"}`
	})).Return(&sns.PublishOutput{}, nil)

	got, err := NewSNSClientWithAPI(api).PublishJSON(context.Background(), "arn:aws:sns:us-east-1:1:leads", "lead", []byte(`{"tier":"enterprise"}`))

	require.NoError(t, err)
	assert.Empty(t, got)
	api.AssertExpectations(t)
}
