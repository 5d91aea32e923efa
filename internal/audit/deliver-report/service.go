// internal/audit/deliver-report/service.go
package deliverreport

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"promptprofit-audit/internal/common/logger"
	"promptprofit-audit/internal/common/validation"
	"promptprofit-audit/internal/models"
)

const (
	Stage = "deliver-report"
)

var (
	ErrInvalidRecipient = errors.New("DELIVERY_INVALID_RECIPIENT")
	ErrDeliveryFailed   = errors.New("DELIVERY_FAILED")
)

type Service struct {
	config    *Config
	transport Transport
	alerter   *Alerter
	crm       CRM
	logger    logger.Logger
}

// NewService wires the delivery stage. alerter may be nil.
func NewService(config *Config, transport Transport, alerter *Alerter, log logger.Logger) *Service {
	return &Service{
		config:    config,
		transport: transport,
		alerter:   alerter,
		logger: log.WithFields(map[string]interface{}{
			"stage":     Stage,
			"transport": transport.Name(),
		}),
	}
}

// WithCRM records every delivered submission as a CRM lead.
func (s *Service) WithCRM(crm CRM) *Service {
	s.crm = crm
	return s
}

// Recipient returns the trimmed report address from the answers, or
// ErrInvalidRecipient when it is not a single valid address.
func Recipient(answers models.Answers) (string, error) {
	to := strings.TrimSpace(answers.Get(models.AnswerEmail))
	if err := validation.ValidateEmail(to); err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidRecipient, logger.MaskEmail(to))
	}
	return to, nil
}

// Execute emails the report to the address given in the answers. A failed
// alert or CRM write is logged and does not fail delivery.
func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	to, err := Recipient(input.Answers)
	if err != nil {
		return nil, err
	}

	messageID := NewMessageID(s.config.From)
	msg, err := BuildMessage(MessageInput{
		From:           s.config.From,
		To:             to,
		Subject:        s.config.Subject,
		Body:           ReadyText(s.config.BaseURL, input.Decision.Route),
		AttachmentName: s.config.AttachmentName,
		PDF:            input.PDF,
		MessageID:      messageID,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}

	sendCtx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	if err := s.transport.Send(sendCtx, s.config.From, []string{to}, msg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}

	out := &Output{
		MessageID: "<" + messageID + ">",
		Transport: s.transport.Name(),
		SentAt:    time.Now(),
	}

	s.logger.Info("report delivered", map[string]interface{}{
		"submissionId": input.SubmissionID,
		"to":           logger.MaskEmail(to),
		"messageId":    out.MessageID,
		"bytes":        len(msg),
	})

	if s.alerter.Wants(input.Decision.Tier) {
		err := s.alerter.Publish(ctx, Alert{
			SubmissionID: input.SubmissionID,
			Tier:         input.Decision.Tier,
			Scores:       input.Scores,
			BusinessType: input.Answers.Get(models.AnswerBusinessType),
		})
		if err != nil {
			s.logger.WithError(err).Warn("sales alert not published", map[string]interface{}{
				"submissionId": input.SubmissionID,
				"tier":         input.Decision.Tier,
			})
		} else {
			out.Alerted = true
		}
	}

	if s.crm != nil {
		leadID, err := s.crm.UpsertLead(ctx, LeadFor(input))
		if err != nil {
			s.logger.WithError(err).Warn("crm lead not recorded", map[string]interface{}{
				"submissionId": input.SubmissionID,
			})
		} else {
			out.LeadID = leadID
		}
	}

	return out, nil
}
