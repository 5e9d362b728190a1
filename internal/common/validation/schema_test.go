package validation

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, body string) interface{} {
	t.Helper()
	var doc interface{}
	require.NoError(t, json.Unmarshal([]byte(body), &doc))
	return doc
}

func TestAssessRequestSchema(t *testing.T) {
	v, err := ForSchema(SchemaAssessRequest)
	require.NoError(t, err)

	tests := []struct {
		name      string
		body      string
		wantValid bool
		wantField string
	}{
		{name: "object answers", body: `{"catalyst": "growth", "answers": {"q1": 5, "q2": "3"}}`, wantValid: true},
		{name: "list answers with value", body: `{"answers": [{"question_id": "q1", "value": "4"}]}`, wantValid: true},
		{name: "list answers with score", body: `{"answers": [{"question_id": "q1", "score": 2, "notes": null}]}`, wantValid: true},
		{name: "empty answers", body: `{"answers": {}}`, wantValid: true},
		{name: "missing answers", body: `{"catalyst": "growth"}`, wantField: "(root)"},
		{name: "non numeric answer", body: `{"answers": {"q1": "five"}}`, wantField: "answers"},
		{name: "boolean answer", body: `{"answers": {"q1": true}}`, wantField: "answers"},
		{name: "list item without value", body: `{"answers": [{"question_id": "q1"}]}`, wantField: "answers"},
		{name: "catalyst not a string", body: `{"catalyst": 3, "answers": {}}`, wantField: "catalyst"},
		{name: "not an object", body: `[1, 2]`, wantField: "(root)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := v.Validate(decode(t, tt.body))
			require.NoError(t, err)
			assert.Equal(t, tt.wantValid, res.Valid, res.Summary())
			if !tt.wantValid {
				assert.NotEmpty(t, res.GetErrorsForField(tt.wantField), res.Summary())
				assert.NotEmpty(t, res.Summary())
			}
		})
	}
}

func TestExportRequestSchema(t *testing.T) {
	v, err := ForSchema(SchemaExportRequest)
	require.NoError(t, err)

	tests := []struct {
		name      string
		body      string
		wantValid bool
	}{
		{name: "markdown string", body: `{"overall_score": 72.5, "recommendations": "### Tips\n**Save** money"}`, wantValid: true},
		{name: "list of strings", body: `{"recommendations": ["one", "two"]}`, wantValid: true},
		{name: "empty object", body: `{}`, wantValid: true},
		{name: "score as text", body: `{"overall_score": "N/A"}`, wantValid: true},
		{name: "numeric recommendations", body: `{"recommendations": 5}`},
		{name: "array body", body: `[]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := v.Validate(decode(t, tt.body))
			require.NoError(t, err)
			assert.Equal(t, tt.wantValid, res.Valid, res.Summary())
		})
	}
}

func TestForSchema_ReusesCompiledValidator(t *testing.T) {
	a, err := ForSchema(SchemaAssessRequest)
	require.NoError(t, err)
	b, err := ForSchema(SchemaAssessRequest)
	require.NoError(t, err)
	assert.Same(t, a, b)

	_, err = ForSchema("nope")
	assert.Error(t, err)
}

func TestNewValidator_RejectsBrokenSchema(t *testing.T) {
	_, err := NewValidator("broken", []byte(`{"type": 12}`))
	assert.Error(t, err)
}

func TestValidationResult_Helpers(t *testing.T) {
	res := &ValidationResult{Errors: []ValidationError{
		{Field: "answers.q1", Message: "bad"},
		{Field: "catalyst", Message: "worse"},
	}}
	assert.True(t, res.HasErrors("catalyst"))
	assert.False(t, res.HasErrors("answers"))
	assert.Len(t, res.GetErrorsForField("answers"), 1)
	assert.Equal(t, "answers.q1: bad; catalyst: worse", res.Summary())
}
