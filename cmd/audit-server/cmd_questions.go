// cmd/audit-server/cmd_questions.go
package main

import (
	"promptprofit-audit/internal/audit/questionnaire"

	"github.com/spf13/cobra"
)

func newQuestionsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "questions",
		Short: "Print the question catalogue as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalogue, err := questionnaire.Load()
			if err != nil {
				return err
			}
			data, err := catalogue.YAML()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}
