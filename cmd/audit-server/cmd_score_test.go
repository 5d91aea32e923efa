package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"promptprofit-audit/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const enterpriseBody = `{"answers":{
	"email":"jane@acme.io",
	"consistency":"daily","score_content":10,
	"followups":"never","score_sales":"2",
	"taskmgmt":"head","missdeadlines":"freq","score_ops":"3"
}}`

func runCommand(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := newRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestScoreCommand_Stdin(t *testing.T) {
	out, err := runCommand(t, enterpriseBody, "score")
	require.NoError(t, err)

	var preview models.PreviewResponse
	require.NoError(t, json.Unmarshal([]byte(out), &preview))
	assert.Equal(t, models.Scores{ContentScore: 100, SalesScore: 10, OpsScore: 11, Overall: 40}, preview.Scores)
	assert.Equal(t, models.TierEnterprise, preview.Decision.Tier)
	assert.Equal(t, "/results/enterprise.html", preview.Decision.Route)
}

func TestScoreCommand_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "answers.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"consistency":"daily","score_content":"10","followups":"daily","score_sales":"10"}`), 0o600))

	out, err := runCommand(t, "", "score", "--answers", path)
	require.NoError(t, err)

	var preview models.PreviewResponse
	require.NoError(t, json.Unmarshal([]byte(out), &preview))
	assert.Equal(t, models.Scores{ContentScore: 100, SalesScore: 100, OpsScore: 0, Overall: 67}, preview.Scores)
	assert.Equal(t, models.TierBuildOps, preview.Decision.Tier)
}

func TestScoreCommand_Errors(t *testing.T) {
	_, err := runCommand(t, `{"answers":`, "score")
	assert.Error(t, err)

	_, err = runCommand(t, "", "score", "--answers", filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}

func TestDecodeAnswers(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    models.Answers
		wantErr bool
	}{
		{
			name: "submit body",
			body: `{"answers":{"consistency":"weekly","score_sales":7}}`,
			want: models.Answers{"consistency": "weekly", "score_sales": "7"},
		},
		{
			name: "flat object",
			body: `{"consistency":"weekly"}`,
			want: models.Answers{"consistency": "weekly"},
		},
		{name: "array", body: `["weekly"]`, wantErr: true},
		{name: "truncated", body: `{"answers":{`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeAnswers([]byte(tt.body))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
