// cmd/audit-server/card.go
package main

import (
	"fmt"
	"strings"

	chooseproduct "promptprofit-audit/internal/audit/choose-product"
	"promptprofit-audit/internal/models"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	cardStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#7C3AED")).
		Padding(1, 2)

	cardTitleStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#7C3AED")).
		Bold(true).
		MarginBottom(1)

	cardLabelStyle = lipgloss.NewStyle().Width(10)

	passStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#16A34A"))
	failStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#DC2626")).Bold(true)
	tierStyle  = lipgloss.NewStyle().Bold(true)
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280")).Italic(true)
)

var titleCaser = cases.Title(language.English)

// tierDisplayName turns "build-content" into "Build Content".
func tierDisplayName(tier models.Tier) string {
	return titleCaser.String(strings.ReplaceAll(string(tier), "-", " "))
}

// renderCard formats a preview as a bordered score card.
func renderCard(p *models.PreviewResponse) string {
	rows := []struct {
		label  string
		score  int
		graded bool
	}{
		{"Content", p.Scores.ContentScore, true},
		{"Sales", p.Scores.SalesScore, true},
		{"Ops", p.Scores.OpsScore, true},
		{"Overall", p.Scores.Overall, false},
	}

	var b strings.Builder
	b.WriteString(cardTitleStyle.Render("PromptProfit Audit"))
	b.WriteString("\n")
	for _, r := range rows {
		value := fmt.Sprintf("%3d", r.score)
		style := lipgloss.NewStyle()
		switch {
		case r.score < chooseproduct.FailThreshold:
			style = failStyle
		case r.graded:
			style = passStyle
		}
		b.WriteString(cardLabelStyle.Render(r.label))
		b.WriteString(style.Render(value))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString("Recommended: " + tierStyle.Render(tierDisplayName(p.Decision.Tier)))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(p.Decision.Route))

	return cardStyle.Render(b.String())
}
