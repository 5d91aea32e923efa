// cmd/audit-server/cmd_ask.go
package main

import (
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"promptprofit-audit/internal/audit/questionnaire"
	submitaudit "promptprofit-audit/internal/audit/submit-audit"
	"promptprofit-audit/internal/common/config"
	"promptprofit-audit/internal/common/validation"
	"promptprofit-audit/internal/models"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newAskCommand(opts *globalOptions) *cobra.Command {
	var submit bool

	cmd := &cobra.Command{
		Use:   "ask",
		Short: "Answer the audit questionnaire in the terminal",
		Long: `Answer the audit questionnaire in the terminal, one page per wizard step.

The answers are scored locally and the score card is printed. With --submit
the answers also go through the full pipeline: diagnosis, PDF report and
email delivery, using the loaded configuration.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalogue, err := questionnaire.Load()
			if err != nil {
				return err
			}

			answers, err := runQuestionnaire(catalogue, cmd.InOrStdin(), cmd.OutOrStdout(), submit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !submit {
				zapLog, log := opts.offlineLogger()
				defer zapLog.Sync() //nolint:errcheck

				pipeline := submitaudit.NewPipeline(submitaudit.Dependencies{Logger: log}, 0)
				preview, err := pipeline.Preview(cmd.Context(), answers)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, renderCard(preview))
				return nil
			}

			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			if err := config.ValidateForServing(cfg); err != nil {
				return &ConfigError{Err: err}
			}
			zapLog, log := opts.newLogger(cfg.Logging)
			defer zapLog.Sync() //nolint:errcheck

			collab, err := buildPipeline(cmd.Context(), cfg, nil, log)
			if err != nil {
				return err
			}
			defer collab.close(log)

			fmt.Fprintln(out, mutedStyle.Render("Generating your report..."))
			result, err := collab.pipeline.Submit(cmd.Context(), answers)
			if err != nil {
				return err
			}

			fmt.Fprintln(out, renderCard(&models.PreviewResponse{Scores: result.Scores, Decision: result.Decision}))
			fmt.Fprintf(out, "Report sent to %s (message %s)\n", answers.Get("email"), result.MessageID)
			return nil
		},
	}

	cmd.Flags().BoolVar(&submit, "submit", false, "Run the full pipeline and email the report")

	return cmd
}

// runQuestionnaire shows one form group per catalogue step and returns the
// collected answers. requireEmail makes the email field mandatory.
func runQuestionnaire(cat *questionnaire.Catalogue, in io.Reader, out io.Writer, requireEmail bool) (models.Answers, error) {
	values := make(map[string]*string, len(cat.Keys()))
	nav := questionnaire.NewNavigator(cat)

	var groups []*huh.Group
	for {
		groups = append(groups, stepGroup(nav.Current(), values, requireEmail))
		if nav.IsLast() {
			break
		}
		if err := nav.Next(); err != nil {
			return nil, err
		}
	}

	form := huh.NewForm(groups...).
		WithInput(in).
		WithOutput(out)

	// Use accessible mode for non-TTY input (e.g., tests, piped input).
	if f, ok := in.(*os.File); !ok || !term.IsTerminal(int(f.Fd())) {
		form = form.WithAccessible(true)
	}

	if err := form.Run(); err != nil {
		return nil, fmt.Errorf("questionnaire failed: %w", err)
	}

	return collectAnswers(cat, values)
}

func stepGroup(step questionnaire.Step, values map[string]*string, requireEmail bool) *huh.Group {
	fields := make([]huh.Field, 0, len(step.Fields))
	for _, f := range step.Fields {
		v := new(string)
		values[f.Key] = v

		switch f.Type {
		case questionnaire.FieldSelect:
			fields = append(fields, huh.NewSelect[string]().
				Title(f.Label).
				Options(huh.NewOptions(f.Options...)...).
				Value(v))
		case questionnaire.FieldTextarea:
			fields = append(fields, huh.NewText().
				Title(f.Label).
				Placeholder(f.Placeholder).
				Value(v))
		default:
			input := huh.NewInput().
				Title(f.Label).
				Placeholder(f.Placeholder).
				Value(v)
			if validate := inputValidator(f.Key, requireEmail); validate != nil {
				input = input.Validate(validate)
			}
			fields = append(fields, input)
		}
	}
	return huh.NewGroup(fields...).Title(step.Title)
}

// inputValidator returns the check for a free-text field, or nil.
func inputValidator(key string, requireEmail bool) func(string) error {
	switch {
	case key == "email" && requireEmail:
		return validation.ValidateEmail
	case strings.HasPrefix(key, "score_"):
		return validateRating
	}
	return nil
}

// validateRating accepts blank or a number from 0 to 10.
func validateRating(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(n) || n < 0 || n > 10 {
		return fmt.Errorf("enter a number from 0 to 10")
	}
	return nil
}

// collectAnswers records every non-blank value through a Navigator so
// unknown keys are rejected the same way the wizard rejects them.
func collectAnswers(cat *questionnaire.Catalogue, values map[string]*string) (models.Answers, error) {
	nav := questionnaire.NewNavigator(cat)
	for key, v := range values {
		if v == nil || strings.TrimSpace(*v) == "" {
			continue
		}
		if err := nav.Set(key, strings.TrimSpace(*v)); err != nil {
			return nil, err
		}
	}
	return nav.Answers(), nil
}
