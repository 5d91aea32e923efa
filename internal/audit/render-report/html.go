// internal/audit/render-report/html.go
package renderreport

import (
	"bytes"
	"fmt"
	"html/template"

	"promptprofit-audit/internal/models"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

const ReportTitle = "PromptProfit Audit Report"

// Raw HTML in the diagnosis is dropped; newlines become <br>.
var diagnosisMarkdown = goldmark.New(
	goldmark.WithExtensions(extension.Strikethrough, extension.Table),
	goldmark.WithRendererOptions(html.WithHardWraps()),
)

var reportTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>{{.Title}}</title>
  <style>
    body { font-family: Arial, sans-serif; padding: 20px; }
    h1 { margin-bottom: 10px; }
    .box { padding: 10px; background: #f4f7fb; border-radius: 8px; margin-bottom: 20px; }
    .score-box { display: inline-block; padding: 10px; margin-right: 10px; background: #e7ecf5; border-radius: 8px; }
  </style>
</head>
<body>

<h1>{{.Title}}</h1>

<div class="box" id="profile">
  <h3>Business Profile</h3>
  <p><strong>Type:</strong> {{.BusinessType}}</p>
  <p><strong>Stage:</strong> {{.Stage}}</p>
  <p><strong>Revenue:</strong> {{.Revenue}}</p>
  <p><strong>Offer:</strong> {{.Offer}}</p>
</div>

<div class="box" id="scores">
  <h3>Scores</h3>
  <div class="score-box">Content: {{.Scores.ContentScore}}</div>
  <div class="score-box">Sales: {{.Scores.SalesScore}}</div>
  <div class="score-box">Ops: {{.Scores.OpsScore}}</div>
  <div class="score-box">Overall: {{.Scores.Overall}}</div>
</div>

<div class="box" id="diagnosis">
  <h3>Diagnosis</h3>
  {{.Diagnosis}}
</div>

</body>
</html>
`))

type templateData struct {
	Title        string
	BusinessType string
	Stage        string
	Revenue      string
	Offer        string
	Scores       models.Scores
	Diagnosis    template.HTML
}

// BuildHTML renders the report page. Answer values are escaped and the
// diagnosis is rendered from markdown.
func BuildHTML(data ReportData) (string, error) {
	var diagnosis bytes.Buffer
	if err := diagnosisMarkdown.Convert([]byte(data.Diagnosis), &diagnosis); err != nil {
		return "", fmt.Errorf("render diagnosis markdown: %w", err)
	}

	var out bytes.Buffer
	err := reportTemplate.Execute(&out, templateData{
		Title:        ReportTitle,
		BusinessType: data.Answers.Get(models.AnswerBusinessType),
		Stage:        data.Answers.Get(models.AnswerStage),
		Revenue:      data.Answers.Get(models.AnswerRevenue),
		Offer:        data.Answers.Get(models.AnswerPrimaryOffer),
		Scores:       data.Scores,
		// goldmark output without WithUnsafe carries no raw HTML from the input
		Diagnosis: template.HTML(diagnosis.String()),
	})
	if err != nil {
		return "", fmt.Errorf("execute report template: %w", err)
	}
	return out.String(), nil
}
