package questionnaire

import (
	"encoding/json"
	"testing"

	"promptprofit-audit/internal/models"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Catalogue Tests
// ==========================

func TestLoad_EmbeddedCatalogue(t *testing.T) {
	cat, err := Load()
	require.NoError(t, err)

	require.Len(t, cat.Steps, 5)

	wantKeys := []string{
		models.AnswerEmail, models.AnswerBusinessType, models.AnswerStage, models.AnswerRevenue,
		models.AnswerConsistency, models.AnswerScoreContent,
		models.AnswerFollowups, models.AnswerScoreSales,
		models.AnswerTaskMgmt, models.AnswerMissDeadlines, models.AnswerScoreOps,
		models.AnswerFrustrations, models.AnswerPrimaryOffer, models.AnswerIdealState,
	}
	if diff := cmp.Diff(wantKeys, cat.Keys()); diff != "" {
		t.Errorf("catalogue keys mismatch (-want +got):\n%s", diff)
	}

	taskmgmt, ok := cat.Field(models.AnswerTaskMgmt)
	require.True(t, ok)
	want := Field{
		Key:     "taskmgmt",
		Label:   "How do you manage tasks?",
		Type:    FieldSelect,
		Options: []string{"head", "notes", "some", "rare"},
	}
	if diff := cmp.Diff(want, taskmgmt); diff != "" {
		t.Errorf("taskmgmt field mismatch (-want +got):\n%s", diff)
	}
}

func TestCatalogue_Validate(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr string
	}{
		{
			name:    "no steps",
			doc:     "steps: []",
			wantErr: "no steps",
		},
		{
			name: "duplicate key",
			doc: `steps:
  - id: a
    fields:
      - {key: email, label: E, type: text}
      - {key: email, label: E, type: text}`,
			wantErr: `duplicate field key "email"`,
		},
		{
			name: "option without points",
			doc: `steps:
  - id: a
    fields:
      - {key: consistency, label: C, type: select, options: [never, hourly]}`,
			wantErr: `option "hourly" has no point value`,
		},
		{
			name: "unknown type",
			doc: `steps:
  - id: a
    fields:
      - {key: x, label: X, type: slider}`,
			wantErr: `unknown type "slider"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestCatalogue_JSONShape(t *testing.T) {
	data, err := json.Marshal(MustLoad())
	require.NoError(t, err)

	var decoded struct {
		Steps []struct {
			Fields []map[string]interface{} `json:"fields"`
		} `json:"steps"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))

	first := decoded.Steps[0].Fields[0]
	assert.Equal(t, "email", first["key"])
	assert.Equal(t, "text", first["type"])
	assert.NotContains(t, first, "options")
}

func TestCatalogue_YAMLRoundTrip(t *testing.T) {
	cat := MustLoad()
	data, err := cat.YAML()
	require.NoError(t, err)

	again, err := Parse(data)
	require.NoError(t, err)
	if diff := cmp.Diff(cat, again); diff != "" {
		t.Errorf("catalogue changed after re-encoding (-want +got):\n%s", diff)
	}
}

// ==========================
// Navigator Tests
// ==========================

func TestNavigator_Walk(t *testing.T) {
	nav := NewNavigator(MustLoad())

	assert.Equal(t, 0, nav.Index())
	assert.Equal(t, "profile", nav.Current().ID)
	assert.InDelta(t, 20.0, nav.Progress(), 0.001)
	assert.False(t, nav.CanGoBack())
	assert.False(t, nav.Submittable())
	assert.ErrorIs(t, nav.Back(), ErrAtFirstStep)

	for i := 1; i < nav.Len(); i++ {
		require.NoError(t, nav.Next())
		assert.Equal(t, i, nav.Index())
	}

	assert.True(t, nav.IsLast())
	assert.True(t, nav.Submittable())
	assert.Equal(t, "pain", nav.Current().ID)
	assert.InDelta(t, 100.0, nav.Progress(), 0.001)
	assert.ErrorIs(t, nav.Next(), ErrAtLastStep)
	assert.Equal(t, 4, nav.Index())
}

func TestNavigator_AnswersSurviveNavigation(t *testing.T) {
	nav := NewNavigator(MustLoad())

	require.NoError(t, nav.Set("email", "jane@acme.io"))
	require.NoError(t, nav.Next())
	require.NoError(t, nav.Set("consistency", "weekly"))
	require.NoError(t, nav.Back())

	assert.Equal(t, "jane@acme.io", nav.Value("email"))
	require.NoError(t, nav.Next())
	assert.Equal(t, "weekly", nav.Value("consistency"))

	want := models.Answers{"email": "jane@acme.io", "consistency": "weekly"}
	assert.Equal(t, want, nav.Answers())
}

func TestNavigator_RejectsUnknownKeys(t *testing.T) {
	nav := NewNavigator(MustLoad())

	err := nav.Set("favourite_colour", "blue")

	assert.ErrorIs(t, err, ErrUnknownField)
	assert.Empty(t, nav.Answers())
}

func TestNavigator_AnswersIsACopy(t *testing.T) {
	nav := NewNavigator(MustLoad())
	require.NoError(t, nav.Set("stage", "growth"))

	snapshot := nav.Answers()
	snapshot["stage"] = "changed"

	assert.Equal(t, "growth", nav.Value("stage"))
}
