package deliverreport

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"promptprofit-audit/internal/common/config"
	apperrors "promptprofit-audit/internal/common/errors"
	"promptprofit-audit/internal/common/logger"
	"promptprofit-audit/internal/common/zoho"
	"promptprofit-audit/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

type mockTransport struct {
	mock.Mock
}

func (m *mockTransport) Send(ctx context.Context, from string, to []string, msg []byte) error {
	args := m.Called(ctx, from, to, msg)
	return args.Error(0)
}

func (m *mockTransport) Name() string { return "mock" }

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) PublishJSON(ctx context.Context, topicARN, subject string, body []byte) (string, error) {
	args := m.Called(ctx, topicARN, subject, body)
	return args.String(0), args.Error(1)
}

type mockCRM struct {
	mock.Mock
}

func (m *mockCRM) UpsertLead(ctx context.Context, lead *zoho.Lead) (string, error) {
	args := m.Called(ctx, lead)
	return args.String(0), args.Error(1)
}

func createTestConfig() *Config {
	return &Config{
		Transport:      TransportSMTP,
		From:           "reports@promptprofit.io",
		Subject:        DefaultSubject,
		AttachmentName: DefaultAttachmentName,
		BaseURL:        "https://audit.example.com",
		Timeout:        5 * time.Second,
	}
}

func createTestInput(tier models.Tier) *Input {
	return &Input{
		SubmissionID: "sub-1",
		Answers:      models.Answers{"email": " jane@acme.io ", "business_type": "Agency"},
		Scores:       models.Scores{ContentScore: 20, SalesScore: 30, OpsScore: 50, Overall: 33},
		Decision:     models.TierDecision{Tier: tier, Route: "/results/" + string(tier) + ".html"},
		PDF:          []byte("%PDF-1.4"),
	}
}

// ==========================
// Service Tests
// ==========================

func TestService_Execute_Success(t *testing.T) {
	transport := &mockTransport{}
	transport.On("Send", mock.Anything, "reports@promptprofit.io", []string{"jane@acme.io"}, mock.MatchedBy(func(msg []byte) bool {
		return len(msg) > 0
	})).Return(nil)

	svc := NewService(createTestConfig(), transport, nil, logger.NewTestLogger(t))
	out, err := svc.Execute(context.Background(), createTestInput(models.TierPro))

	require.NoError(t, err)
	assert.Regexp(t, `^<.+@promptprofit\.io>$`, out.MessageID)
	assert.Equal(t, "mock", out.Transport)
	assert.False(t, out.SentAt.IsZero())
	assert.False(t, out.Alerted)
	transport.AssertExpectations(t)
}

func TestService_Execute_InvalidRecipient(t *testing.T) {
	tests := []struct {
		name  string
		email string
	}{
		{"missing", ""},
		{"no domain", "jane"},
		{"two addresses", "jane@acme.io,bob@acme.io"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transport := &mockTransport{}
			input := createTestInput(models.TierPro)
			input.Answers["email"] = tt.email

			svc := NewService(createTestConfig(), transport, nil, logger.NewNoOpLogger())
			out, err := svc.Execute(context.Background(), input)

			assert.Nil(t, out)
			assert.ErrorIs(t, err, ErrInvalidRecipient)
			transport.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestService_Execute_TransportError(t *testing.T) {
	transport := &mockTransport{}
	transport.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(assert.AnError)
	publisher := &mockPublisher{}

	svc := NewService(createTestConfig(), transport, NewAlerter(publisher, "arn:topic", []string{"enterprise"}), logger.NewNoOpLogger())
	out, err := svc.Execute(context.Background(), createTestInput(models.TierEnterprise))

	assert.Nil(t, out)
	assert.ErrorIs(t, err, ErrDeliveryFailed)
	publisher.AssertNotCalled(t, "PublishJSON", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// ==========================
// Alert Tests
// ==========================

func TestService_Execute_Alerts(t *testing.T) {
	transport := &mockTransport{}
	transport.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	publisher := &mockPublisher{}
	publisher.On("PublishJSON", mock.Anything, "arn:topic", alertSubject, mock.MatchedBy(func(body []byte) bool {
		var a Alert
		return json.Unmarshal(body, &a) == nil &&
			a.SubmissionID == "sub-1" &&
			a.Tier == models.TierEnterprise &&
			a.Scores.Overall == 33 &&
			a.BusinessType == "Agency"
	})).Return("msg-1", nil)

	svc := NewService(createTestConfig(), transport, NewAlerter(publisher, "arn:topic", []string{"enterprise"}), logger.NewNoOpLogger())

	out, err := svc.Execute(context.Background(), createTestInput(models.TierEnterprise))
	require.NoError(t, err)
	assert.True(t, out.Alerted)

	out, err = svc.Execute(context.Background(), createTestInput(models.TierStarter))
	require.NoError(t, err)
	assert.False(t, out.Alerted)

	publisher.AssertNumberOfCalls(t, "PublishJSON", 1)
}

func TestService_Execute_AlertFailureIsNotFatal(t *testing.T) {
	transport := &mockTransport{}
	transport.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	publisher := &mockPublisher{}
	publisher.On("PublishJSON", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("", assert.AnError)

	svc := NewService(createTestConfig(), transport, NewAlerter(publisher, "arn:topic", []string{"enterprise"}), logger.NewNoOpLogger())
	out, err := svc.Execute(context.Background(), createTestInput(models.TierEnterprise))

	require.NoError(t, err)
	assert.False(t, out.Alerted)
}

func TestAlerter_Wants(t *testing.T) {
	var nilAlerter *Alerter
	assert.False(t, nilAlerter.Wants(models.TierEnterprise))

	a := NewAlerter(&mockPublisher{}, "arn", []string{"enterprise", "build-ops"})
	assert.True(t, a.Wants(models.TierEnterprise))
	assert.True(t, a.Wants(models.TierBuildOps))
	assert.False(t, a.Wants(models.TierPro))
}

func TestAlerter_PublishError(t *testing.T) {
	publisher := &mockPublisher{}
	publisher.On("PublishJSON", mock.Anything, "arn:topic", alertSubject, mock.Anything).Return("", assert.AnError)

	err := NewAlerter(publisher, "arn:topic", nil).Publish(context.Background(), Alert{SubmissionID: "sub-1"})

	var stdErr *apperrors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, apperrors.ErrCodeAlertPublishFailed, stdErr.Code)
	assert.ErrorIs(t, err, assert.AnError)
}

// ==========================
// CRM Tests
// ==========================

func TestService_Execute_RecordsLead(t *testing.T) {
	transport := &mockTransport{}
	transport.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	crm := &mockCRM{}
	crm.On("UpsertLead", mock.Anything, mock.MatchedBy(func(l *zoho.Lead) bool {
		return l.Email == "jane@acme.io" && l.Company == "Agency" && l.Source == zoho.LeadSource
	})).Return("lead-7", nil)

	svc := NewService(createTestConfig(), transport, nil, logger.NewNoOpLogger()).WithCRM(crm)
	out, err := svc.Execute(context.Background(), createTestInput(models.TierPro))

	require.NoError(t, err)
	assert.Equal(t, "lead-7", out.LeadID)
	crm.AssertExpectations(t)
}

func TestService_Execute_CRMFailureIsNotFatal(t *testing.T) {
	transport := &mockTransport{}
	transport.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	crm := &mockCRM{}
	crm.On("UpsertLead", mock.Anything, mock.Anything).Return("", assert.AnError)

	svc := NewService(createTestConfig(), transport, nil, logger.NewNoOpLogger()).WithCRM(crm)
	out, err := svc.Execute(context.Background(), createTestInput(models.TierPro))

	require.NoError(t, err)
	assert.Empty(t, out.LeadID)
}

func TestService_Execute_NoLeadWhenDeliveryFails(t *testing.T) {
	transport := &mockTransport{}
	transport.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(assert.AnError)
	crm := &mockCRM{}

	svc := NewService(createTestConfig(), transport, nil, logger.NewNoOpLogger()).WithCRM(crm)
	_, err := svc.Execute(context.Background(), createTestInput(models.TierPro))

	assert.ErrorIs(t, err, ErrDeliveryFailed)
	crm.AssertNotCalled(t, "UpsertLead", mock.Anything, mock.Anything)
}

func TestLeadFor(t *testing.T) {
	input := createTestInput(models.TierEnterprise)
	input.Answers["stage"] = "Growth"
	input.Answers["primary_offer"] = "Coaching"

	lead := LeadFor(input)

	assert.Equal(t, "jane@acme.io", lead.Email)
	assert.Equal(t, "Agency", lead.LastName)
	assert.Contains(t, lead.Description, "Recommended tier: enterprise")
	assert.Contains(t, lead.Description, "content 20, sales 30, ops 50, overall 33")
	assert.Contains(t, lead.Description, "Stage: Growth")
	assert.Contains(t, lead.Description, "Offer: Coaching")
	assert.NotContains(t, lead.Description, "Revenue:")

	delete(input.Answers, "business_type")
	assert.Equal(t, "jane", LeadFor(input).LastName)
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg := LoadConfig(config.DeliveryConfig{}, "https://audit.example.com/")

	assert.Equal(t, TransportSMTP, cfg.Transport)
	assert.Equal(t, DefaultSubject, cfg.Subject)
	assert.Equal(t, DefaultAttachmentName, cfg.AttachmentName)
	assert.Equal(t, "https://audit.example.com", cfg.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
}
