// Package suggest asks a hosted language model for experiment design
// suggestions and turns its free-text replies into structured values.
//
// A request never fails from the caller's point of view: provider and parse
// failures are logged and replaced by a static default for the kind.
package suggest

import (
	"strconv"

	"github.com/interpretive-systems/expwiz/internal/experiment"
)

// Kind selects the prompt, parser and default of a request.
type Kind string

const (
	KindTitle         Kind = "title"
	KindSampleSize    Kind = "sample_size"
	KindRandomization Kind = "randomization"
	KindVariables     Kind = "variables"
)

// Kinds lists every suggestion kind.
func Kinds() []Kind {
	return []Kind{KindTitle, KindSampleSize, KindRandomization, KindVariables}
}

// IsList reports whether the kind yields several values.
func (k Kind) IsList() bool {
	return k == KindTitle || k == KindVariables
}

// Params are interpolated into the prompt as-is.
type Params struct {
	Domain experiment.Domain
	Focus  string
	// ExperimentType is empty in simple mode, which prompts for a general experiment.
	ExperimentType experiment.ExperimentType
	ExpectedEffect string
	SampleSize     int
	Variables      []string
	Clusters       []string
}

// Request is one suggestion lookup.
type Request struct {
	Kind   Kind
	Params Params
}

// Suggestion is a parsed model reply, or the static default when Fallback is set.
type Suggestion struct {
	Kind        Kind
	Values      []string
	Explanation string
	Fallback    bool
}

// Value returns the first value, or "".
func (s Suggestion) Value() string {
	if len(s.Values) == 0 {
		return ""
	}
	return s.Values[0]
}

// Int returns the first value as an integer.
func (s Suggestion) Int() (int, bool) {
	n, err := strconv.Atoi(s.Value())
	if err != nil {
		return 0, false
	}
	return n, true
}
