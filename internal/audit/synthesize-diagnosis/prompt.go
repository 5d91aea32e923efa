// internal/audit/synthesize-diagnosis/prompt.go
package synthesizediagnosis

import (
	"encoding/json"
	"fmt"
	"strings"

	"promptprofit-audit/internal/models"
)

const SystemPrompt = "You are an expert AI systems architect."

// BuildPrompt lays out the diagnosis request followed by the raw answers
// and scores as indented JSON.
func BuildPrompt(answers models.Answers, scores models.Scores) (string, error) {
	if answers == nil {
		answers = models.Answers{}
	}
	answersJSON, err := json.MarshalIndent(answers, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode answers: %w", err)
	}
	scoresJSON, err := json.MarshalIndent(scores, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode scores: %w", err)
	}

	var b strings.Builder
	b.WriteString("A user completed an AI business audit.\n\n")
	b.WriteString("Return a structured diagnosis including:\n")
	b.WriteString("- System weaknesses\n")
	b.WriteString("- Bottlenecks\n")
	b.WriteString("- Ideal automation improvements\n")
	b.WriteString("- Recommended PromptProfit tier\n")
	b.WriteString("- Next steps\n\n")
	b.WriteString("Answers:\n")
	b.Write(answersJSON)
	b.WriteString("\n\nScores:\n")
	b.Write(scoresJSON)
	b.WriteString("\n")
	return b.String(), nil
}
