package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnswers_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected Answers
	}{
		{
			name:     "string values",
			body:     `{"consistency":"daily","score_content":"7"}`,
			expected: Answers{"consistency": "daily", "score_content": "7"},
		},
		{
			name:     "integral numbers become digit strings",
			body:     `{"score_content":7,"score_sales":10.0,"score_ops":-3}`,
			expected: Answers{"score_content": "7", "score_sales": "10", "score_ops": "-3"},
		},
		{
			name:     "fractional numbers keep their text",
			body:     `{"score_content":7.5}`,
			expected: Answers{"score_content": "7.5"},
		},
		{
			name:     "null bool and nested values",
			body:     `{"a":null,"b":true,"c":{"x":1},"d":[1,2]}`,
			expected: Answers{"a": "", "b": "true", "c": "", "d": ""},
		},
		{
			name:     "empty object",
			body:     `{}`,
			expected: Answers{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Answers
			require.NoError(t, json.Unmarshal([]byte(tt.body), &got))
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestAnswers_UnmarshalJSON_Null(t *testing.T) {
	var req SubmissionRequest
	require.NoError(t, json.Unmarshal([]byte(`{"answers":null}`), &req))
	assert.Nil(t, req.Answers)
	assert.Equal(t, "", req.Answers.Get(AnswerEmail))
}

func TestAnswers_UnmarshalJSON_RejectsNonObject(t *testing.T) {
	var got Answers
	assert.Error(t, json.Unmarshal([]byte(`["daily"]`), &got))
}

func TestAnswers_Clone(t *testing.T) {
	original := Answers{AnswerEmail: "a@b.co"}
	clone := original.Clone()
	clone[AnswerEmail] = "changed@b.co"

	assert.Equal(t, "a@b.co", original[AnswerEmail])
}
