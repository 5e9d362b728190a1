package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnswers_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    Answers
		wantErr string
	}{
		{
			name: "object form",
			body: `{"catalyst": "growth", "answers": {"q1": 5, "q2": "3"}}`,
			want: Answers{"q1": 5.0, "q2": "3"},
		},
		{
			name: "list form with value",
			body: `{"answers": [{"question_id": "q1", "value": "4"}]}`,
			want: Answers{"q1": "4"},
		},
		{
			name: "list form with score and notes",
			body: `{"answers": [{"question_id": "q1", "score": 2, "notes": null}, {"question_id": "q1", "score": 3}]}`,
			want: Answers{"q1": 3.0},
		},
		{
			name: "missing answers",
			body: `{"catalyst": "default"}`,
			want: nil,
		},
		{
			name:    "list item without id",
			body:    `{"answers": [{"value": 1}]}`,
			wantErr: "question_id is required",
		},
		{
			name:    "scalar answers",
			body:    `{"answers": 7}`,
			wantErr: "object or a list",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var resp AssessmentResponse
			err := json.Unmarshal([]byte(tt.body), &resp)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.Answers)
		})
	}
}
