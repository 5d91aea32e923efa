// internal/audit/deliver-report/alert.go
package deliverreport

import (
	"context"
	"encoding/json"
	"fmt"

	apperrors "promptprofit-audit/internal/common/errors"
	"promptprofit-audit/internal/models"
)

const alertSubject = "PromptProfit audit lead"

// Publisher is satisfied by aws.SNSClient.
type Publisher interface {
	PublishJSON(ctx context.Context, topicARN, subject string, body []byte) (string, error)
}

// Alerter notifies sales about submissions landing in selected tiers.
type Alerter struct {
	publisher Publisher
	topicARN  string
	tiers     map[models.Tier]bool
}

func NewAlerter(publisher Publisher, topicARN string, tiers []string) *Alerter {
	set := make(map[models.Tier]bool, len(tiers))
	for _, t := range tiers {
		set[models.Tier(t)] = true
	}
	return &Alerter{publisher: publisher, topicARN: topicARN, tiers: set}
}

// Wants reports whether tier is alerted on.
func (a *Alerter) Wants(tier models.Tier) bool {
	return a != nil && a.tiers[tier]
}

func (a *Alerter) Publish(ctx context.Context, alert Alert) error {
	body, err := json.Marshal(alert)
	if err != nil {
		return fmt.Errorf("encode alert: %w", err)
	}
	if _, err := a.publisher.PublishJSON(ctx, a.topicARN, alertSubject, body); err != nil {
		return apperrors.NewAlertPublishFailedError(err)
	}
	return nil
}
