// cmd/audit-server/cmd_score.go
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	submitaudit "promptprofit-audit/internal/audit/submit-audit"
	"promptprofit-audit/internal/common/validation"
	"promptprofit-audit/internal/models"

	"github.com/spf13/cobra"
)

func newScoreCommand(opts *globalOptions) *cobra.Command {
	var answersPath string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score a set of answers and pick a tier",
		Long: `Score a set of answers and pick a tier without calling any external service.

Answers are read as JSON, either as a submit body ({"answers":{...}}) or as
a flat object of answer keys. Use --answers - (the default) to read stdin.

Output is a score card on a terminal and JSON otherwise.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			zapLog, log := opts.offlineLogger()
			defer zapLog.Sync() //nolint:errcheck

			answers, err := readAnswersFrom(answersPath, cmd.InOrStdin())
			if err != nil {
				return err
			}

			pipeline := submitaudit.NewPipeline(submitaudit.Dependencies{Logger: log}, 0)
			preview, err := pipeline.Preview(cmd.Context(), answers)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON || !isTerminal(out) {
				return writePreviewJSON(out, preview)
			}
			fmt.Fprintln(out, renderCard(preview))
			return nil
		},
	}

	cmd.Flags().StringVar(&answersPath, "answers", "-", "JSON file with the answers, or - for stdin")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON even on a terminal")

	return cmd
}

func readAnswersFrom(path string, stdin io.Reader) (models.Answers, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" || path == "" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read answers: %w", err)
	}
	return decodeAnswers(data)
}

// decodeAnswers accepts a submit body or a bare answers object.
func decodeAnswers(data []byte) (models.Answers, error) {
	if result := validation.ValidateAuditRequest(data); result.Valid {
		var req models.SubmissionRequest
		if err := json.Unmarshal(data, &req); err != nil {
			return nil, fmt.Errorf("decode answers: %w", err)
		}
		return req.Answers, nil
	}

	var answers models.Answers
	if err := json.Unmarshal(data, &answers); err != nil {
		return nil, fmt.Errorf("decode answers: expected {\"answers\":{...}} or a flat object: %w", err)
	}
	return answers, nil
}

func writePreviewJSON(w io.Writer, preview *models.PreviewResponse) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(preview)
}
