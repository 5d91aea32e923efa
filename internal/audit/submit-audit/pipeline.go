// internal/audit/submit-audit/pipeline.go
package submitaudit

import (
	"context"
	"time"

	calculatescores "promptprofit-audit/internal/audit/calculate-scores"
	chooseproduct "promptprofit-audit/internal/audit/choose-product"
	deliverreport "promptprofit-audit/internal/audit/deliver-report"
	renderreport "promptprofit-audit/internal/audit/render-report"
	synthesizediagnosis "promptprofit-audit/internal/audit/synthesize-diagnosis"
	"promptprofit-audit/internal/common/logger"
	"promptprofit-audit/internal/common/metrics"
	"promptprofit-audit/internal/common/observability"
	"promptprofit-audit/internal/models"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	Stage = "submit-audit"
)

type Dependencies struct {
	Synthesizer   Synthesizer
	Renderer      Renderer
	Deliverer     Deliverer
	Observability *observability.Observability
	Logger        logger.Logger
}

// Pipeline runs one submission through scoring, diagnosis, tier selection,
// rendering and delivery. Stages run in that order and the first error
// stops the run.
type Pipeline struct {
	scorer  *calculatescores.Handler
	chooser *chooseproduct.Handler
	synth   Synthesizer
	render  Renderer
	deliver Deliverer
	obs     *observability.Observability
	logger  logger.Logger
	timeout time.Duration
}

// NewPipeline builds a pipeline. A zero timeout leaves the caller's
// context as the only deadline.
func NewPipeline(deps Dependencies, timeout time.Duration) *Pipeline {
	log := deps.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Pipeline{
		scorer:  calculatescores.NewHandler(log),
		chooser: chooseproduct.NewHandler(log),
		synth:   deps.Synthesizer,
		render:  deps.Renderer,
		deliver: deps.Deliverer,
		obs:     deps.Observability,
		logger:  log.WithFields(map[string]interface{}{"stage": Stage}),
		timeout: timeout,
	}
}

// Preview scores answers and picks a tier without any external calls.
func (p *Pipeline) Preview(ctx context.Context, answers models.Answers) (*models.PreviewResponse, error) {
	scored, err := p.scorer.Execute(ctx, &calculatescores.Input{Answers: answers})
	if err != nil {
		return nil, err
	}
	chosen, err := p.chooser.Execute(ctx, &chooseproduct.Input{Scores: scored.Scores})
	if err != nil {
		return nil, err
	}
	return &models.PreviewResponse{Scores: scored.Scores, Decision: chosen.Decision}, nil
}

// Submit runs the full pipeline. Errors are *errors.StandardError values.
func (p *Pipeline) Submit(ctx context.Context, answers models.Answers) (*Result, error) {
	start := time.Now()
	id := uuid.NewString()

	metrics.AuditSubmissionsActive.Inc()
	defer metrics.AuditSubmissionsActive.Dec()

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	ctx, span := p.obs.StartSpan(ctx, "audit.submit", attribute.String("submission.id", id))
	defer span.End()

	result, err := p.run(ctx, id, answers)
	status := metrics.StatusSuccess
	if err != nil {
		status = metrics.StatusError
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}

	metrics.AuditSubmissions.WithLabelValues(status).Inc()
	p.obs.RecordSubmission(ctx, status)
	p.obs.RecordSubmissionDuration(ctx, time.Since(start), status)

	if err != nil {
		return nil, err
	}

	metrics.AuditTierDecisions.WithLabelValues(string(result.Decision.Tier)).Inc()
	span.SetAttributes(attribute.String("audit.tier", string(result.Decision.Tier)))
	result.Duration = time.Since(start)

	p.logger.Info("submission completed", map[string]interface{}{
		"submissionId": id,
		"tier":         result.Decision.Tier,
		"overall":      result.Scores.Overall,
		"durationMs":   result.Duration.Milliseconds(),
	})
	return result, nil
}

func (p *Pipeline) run(ctx context.Context, id string, answers models.Answers) (*Result, error) {
	answers = answers.Clone()

	// the recipient is checked before any paid stage runs
	if _, err := deliverreport.Recipient(answers); err != nil {
		stdErr := classify(deliverreport.Stage, err)
		p.logger.Warn("submission rejected", map[string]interface{}{
			"submissionId": id,
			"errorCode":    string(stdErr.Code),
		})
		return nil, stdErr
	}

	var scored *calculatescores.Output
	err := p.stage(ctx, calculatescores.Stage, func(ctx context.Context) (err error) {
		scored, err = p.scorer.Execute(ctx, &calculatescores.Input{SubmissionID: id, Answers: answers})
		return err
	})
	if err != nil {
		return nil, err
	}

	var diagnosis *synthesizediagnosis.Output
	err = p.stage(ctx, synthesizediagnosis.Stage, func(ctx context.Context) (err error) {
		diagnosis, err = p.synth.Execute(ctx, &synthesizediagnosis.Input{
			SubmissionID: id,
			Answers:      answers,
			Scores:       scored.Scores,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	var chosen *chooseproduct.Output
	err = p.stage(ctx, chooseproduct.Stage, func(ctx context.Context) (err error) {
		chosen, err = p.chooser.Execute(ctx, &chooseproduct.Input{SubmissionID: id, Scores: scored.Scores})
		return err
	})
	if err != nil {
		return nil, err
	}

	var report *renderreport.Output
	err = p.stage(ctx, renderreport.Stage, func(ctx context.Context) (err error) {
		report, err = p.render.Execute(ctx, &renderreport.Input{
			SubmissionID: id,
			Answers:      answers,
			Diagnosis:    diagnosis.Diagnosis,
			Scores:       scored.Scores,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	var delivered *deliverreport.Output
	err = p.stage(ctx, deliverreport.Stage, func(ctx context.Context) (err error) {
		delivered, err = p.deliver.Execute(ctx, &deliverreport.Input{
			SubmissionID: id,
			Answers:      answers,
			Scores:       scored.Scores,
			Decision:     chosen.Decision,
			PDF:          report.PDF,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	return &Result{
		SubmissionID: id,
		Scores:       scored.Scores,
		Decision:     chosen.Decision,
		MessageID:    delivered.MessageID,
	}, nil
}

// stage times and traces fn and classifies its error.
func (p *Pipeline) stage(ctx context.Context, name string, fn func(context.Context) error) error {
	ctx, span := p.obs.StartSpan(ctx, "audit."+name, attribute.String("audit.stage", name))
	defer span.End()

	start := time.Now()
	err := fn(ctx)
	metrics.AuditStageDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())

	if err != nil {
		stdErr := classify(name, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, string(stdErr.Code))
		p.logger.WithError(err).Error("stage failed", map[string]interface{}{
			"failedStage": name,
			"errorCode":   string(stdErr.Code),
			"retryable":   stdErr.Retryable,
		})
		return stdErr
	}
	return nil
}
