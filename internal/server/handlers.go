// internal/server/handlers.go
package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	apperrors "promptprofit-audit/internal/common/errors"
	"promptprofit-audit/internal/common/validation"
	"promptprofit-audit/internal/models"
)

const (
	maxBodyBytes   = 1 << 20
	releaseTimeout = 2 * time.Second
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// readAnswers reads and schema-checks a {"answers":{...}} body.
func readAnswers(r *http.Request) (models.Answers, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
	if err != nil {
		return nil, apperrors.NewInvalidRequestError(err.Error())
	}
	if len(body) > maxBodyBytes {
		return nil, apperrors.NewInvalidRequestError("body too large")
	}

	if result := validation.ValidateAuditRequest(body); !result.Valid {
		return nil, apperrors.NewInvalidRequestError(strings.Join(result.GetErrorMessages(), "; "))
	}

	var req models.SubmissionRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, apperrors.NewInvalidRequestError(err.Error())
	}
	if req.Answers == nil {
		req.Answers = models.Answers{}
	}
	return req.Answers, nil
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	answers, err := readAnswers(r)
	if err != nil {
		s.errors.HandleHTTPError(w, r, err)
		return
	}

	if s.opts.Throttle != nil {
		email := answers.Get(models.AnswerEmail)
		if !s.opts.Throttle.Allow(r.Context(), email) {
			s.errors.HandleHTTPError(w, r, apperrors.NewThrottledError("submission limit reached for recipient"))
			return
		}
	}

	result, err := s.opts.Submitter.Submit(r.Context(), answers)
	if err != nil {
		if s.opts.Throttle != nil {
			// the request context may already be done when the pipeline timed out
			ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), releaseTimeout)
			s.opts.Throttle.Release(ctx, answers.Get(models.AnswerEmail))
			cancel()
		}
		s.errors.HandleHTTPError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, models.SubmissionResponse{
		Success:  true,
		Redirect: result.Decision.Route,
	})
}

func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	answers, err := readAnswers(r)
	if err != nil {
		s.errors.HandleHTTPError(w, r, err)
		return
	}

	preview, err := s.opts.Submitter.Preview(r.Context(), answers)
	if err != nil {
		s.errors.HandleHTTPError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, preview)
}

func (s *Server) handleQuestions(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "public, max-age=300")
	writeJSON(w, http.StatusOK, s.opts.Catalogue)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.opts.Ready != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.opts.Ready.Ping(ctx); err != nil {
			s.logger.WithError(err).Warn("readiness check failed", nil)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"time":   time.Now().UTC().Format(time.RFC3339),
			})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ready",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}
