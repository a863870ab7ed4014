package experiment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReviewDesign(t *testing.T) {
	outcome := Variable{Name: "Engagement", Type: VariableOutcome, DataType: DataNumeric}
	context := Variable{Name: "Location", Type: VariableContext, DataType: DataCategorical}

	tests := []struct {
		name  string
		state State
		want  int
	}{
		{
			name:  "cmab with nothing set",
			state: State{ExperimentType: TypeCMAB},
			want:  60,
		},
		{
			name:  "complete mab",
			state: State{ExperimentType: TypeMAB, SampleSize: 500, Variables: []Variable{outcome}},
			want:  100,
		},
		{
			name:  "small mab",
			state: State{ExperimentType: TypeMAB, SampleSize: 99, Variables: []Variable{outcome}},
			want:  90,
		},
		{
			name:  "small sample only penalised for mab",
			state: State{ExperimentType: TypeBayesianAB, SampleSize: 20, Variables: []Variable{outcome}},
			want:  100,
		},
		{
			name:  "cmab without context variable",
			state: State{ExperimentType: TypeCMAB, SampleSize: 600, Variables: []Variable{outcome}},
			want:  85,
		},
		{
			name:  "cmab with context variable",
			state: State{ExperimentType: TypeCMAB, SampleSize: 600, Variables: []Variable{outcome, context}},
			want:  100,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := ReviewDesign(tt.state)
			assert.Equal(t, tt.want, r.Score)
			assert.Equal(t, DesignTips(tt.state.ExperimentType), r.Suggestions)
		})
	}
}

func TestReviewDesign_FindingsMatchPenalties(t *testing.T) {
	r := ReviewDesign(State{ExperimentType: TypeCMAB})
	assert.Len(t, r.Findings, 2)
}
