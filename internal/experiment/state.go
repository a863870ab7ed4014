// Package experiment holds the experiment record collected by the wizard and
// the deterministic rules applied to it (sample-size heuristic, assignment
// ratio preview, design review scoring, required-field validation).
package experiment

import "slices"

// Domain is the field an experiment belongs to.
type Domain string

const (
	DomainDefault    Domain = "default"
	DomainEducation  Domain = "education"
	DomainHealthcare Domain = "healthcare"
	DomainFinancial  Domain = "financial"
)

// Domains lists the selectable domains in display order.
func Domains() []Domain {
	return []Domain{DomainDefault, DomainEducation, DomainHealthcare, DomainFinancial}
}

// Label returns the human readable domain name.
func (d Domain) Label() string {
	switch d {
	case DomainEducation:
		return "Education"
	case DomainHealthcare:
		return "Healthcare"
	case DomainFinancial:
		return "Financial Inclusion"
	default:
		return "General"
	}
}

// ExperimentType is the adaptive allocation approach.
type ExperimentType string

const (
	TypeMAB        ExperimentType = "mab"
	TypeCMAB       ExperimentType = "cmab"
	TypeBayesianAB ExperimentType = "bayesian_ab"
)

// ExperimentTypes lists the selectable experiment types in display order.
func ExperimentTypes() []ExperimentType {
	return []ExperimentType{TypeMAB, TypeCMAB, TypeBayesianAB}
}

// Label returns the human readable experiment type.
func (t ExperimentType) Label() string {
	switch t {
	case TypeMAB:
		return "Multi-Armed Bandit (MAB)"
	case TypeCMAB:
		return "Contextual MAB"
	case TypeBayesianAB:
		return "Bayesian A/B Test"
	default:
		return string(t)
	}
}

// Description explains how the experiment type allocates participants.
func (t ExperimentType) Description() string {
	switch t {
	case TypeMAB:
		return "Multi-Armed Bandit experiments adaptively allocate participants to different treatments, optimizing for rewards over time."
	case TypeCMAB:
		return "Contextual MABs consider participant characteristics when making assignment decisions."
	case TypeBayesianAB:
		return "Bayesian A/B tests use prior knowledge and continuously update probabilities as data comes in."
	default:
		return ""
	}
}

// RandomizationMethod is how participants are assigned to groups. The empty
// value means no method has been chosen yet.
type RandomizationMethod string

const (
	MethodUnset      RandomizationMethod = ""
	MethodSimple     RandomizationMethod = "simple"
	MethodStratified RandomizationMethod = "stratified"
	MethodCluster    RandomizationMethod = "cluster"
)

// RandomizationMethods lists the selectable methods, unset first.
func RandomizationMethods() []RandomizationMethod {
	return []RandomizationMethod{MethodUnset, MethodSimple, MethodStratified, MethodCluster}
}

// ParseRandomizationMethod maps free text onto a known method.
func ParseRandomizationMethod(s string) (RandomizationMethod, bool) {
	switch RandomizationMethod(s) {
	case MethodSimple, MethodStratified, MethodCluster:
		return RandomizationMethod(s), true
	}
	return MethodUnset, false
}

// Label returns the human readable method name.
func (m RandomizationMethod) Label() string {
	switch m {
	case MethodSimple:
		return "Simple Randomization"
	case MethodStratified:
		return "Stratified Randomization"
	case MethodCluster:
		return "Cluster Randomization"
	default:
		return "Select a method"
	}
}

// Description explains when the method is appropriate.
func (m RandomizationMethod) Description() string {
	switch m {
	case MethodSimple:
		return "Simple randomization assigns participants completely at random, like flipping a coin. Best for larger sample sizes (>100)."
	case MethodStratified:
		return "Stratified randomization ensures balance across important variables like gender or age group. Recommended when these factors might affect outcomes."
	case MethodCluster:
		return "Cluster randomization assigns groups (e.g., schools, villages) rather than individuals. Use when interventions affect entire groups."
	default:
		return ""
	}
}

// AssignmentRatio selects equal or custom allocation across groups.
type AssignmentRatio string

const (
	RatioEqual  AssignmentRatio = "equal"
	RatioCustom AssignmentRatio = "custom"
)

// VariableType separates measured outcomes from assignment-time context.
type VariableType string

const (
	VariableOutcome VariableType = "outcome"
	VariableContext VariableType = "context"
)

// DataType is the measurement scale of a variable.
type DataType string

const (
	DataNumeric     DataType = "numeric"
	DataCategorical DataType = "categorical"
	DataBinary      DataType = "binary"
)

// DataTypes lists the selectable data types in display order.
func DataTypes() []DataType {
	return []DataType{DataNumeric, DataCategorical, DataBinary}
}

// Variable is a measured or contextual quantity of the experiment.
type Variable struct {
	Name     string       `json:"name" yaml:"name"`
	Type     VariableType `json:"type" yaml:"type"`
	DataType DataType     `json:"dataType" yaml:"dataType"`
}

// PowerCalculation records the calculator parameters.
type PowerCalculation struct {
	MDE   float64 `json:"mde" yaml:"mde"`
	Power float64 `json:"power" yaml:"power"`
	Alpha float64 `json:"alpha" yaml:"alpha"`
}

// State is the experiment record shared by all wizard steps.
type State struct {
	Title               string              `json:"title" yaml:"title"`
	Description         string              `json:"description" yaml:"description"`
	Domain              Domain              `json:"domain" yaml:"domain"`
	Focus               string              `json:"focus" yaml:"focus"`
	ExperimentType      ExperimentType      `json:"experimentType" yaml:"experimentType"`
	RandomizationMethod RandomizationMethod `json:"randomizationMethod" yaml:"randomizationMethod"`
	TreatmentGroups     []string            `json:"treatmentGroups" yaml:"treatmentGroups"`
	AssignmentRatio     AssignmentRatio     `json:"assignmentRatio" yaml:"assignmentRatio"`
	CustomRatioValue    string              `json:"customRatioValue" yaml:"customRatioValue"`
	// SampleSize is zero while unset.
	SampleSize       int               `json:"sampleSize,omitempty" yaml:"sampleSize,omitempty"`
	PowerCalculation *PowerCalculation `json:"powerCalculation,omitempty" yaml:"powerCalculation,omitempty"`
	Variables        []Variable        `json:"variables" yaml:"variables"`
}

// NewState returns the empty record a wizard session starts from.
func NewState() State {
	return State{
		Domain:          DomainDefault,
		ExperimentType:  TypeMAB,
		AssignmentRatio: RatioEqual,
		TreatmentGroups: []string{},
		Variables:       []Variable{},
	}
}

// HasSampleSize reports whether a sample size was set.
func (s State) HasSampleSize() bool { return s.SampleSize > 0 }

// VariablesOfType returns the variables with the given type, in order.
func (s State) VariablesOfType(t VariableType) []Variable {
	var out []Variable
	for _, v := range s.Variables {
		if v.Type == t {
			out = append(out, v)
		}
	}
	return out
}

// VariableNames returns the names of all variables, in order.
func (s State) VariableNames() []string {
	names := make([]string, 0, len(s.Variables))
	for _, v := range s.Variables {
		names = append(names, v.Name)
	}
	return names
}

func (s State) clone() State {
	c := s
	c.TreatmentGroups = slices.Clone(s.TreatmentGroups)
	c.Variables = slices.Clone(s.Variables)
	if s.PowerCalculation != nil {
		pc := *s.PowerCalculation
		c.PowerCalculation = &pc
	}
	return c
}
