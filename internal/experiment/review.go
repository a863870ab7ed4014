package experiment

// Review is the outcome of the heuristic design check shown on the last step.
// It is a fixed set of penalty rules, not a statistical validation.
type Review struct {
	Score       int
	Findings    []string
	Suggestions []string
}

// Penalties applied by ReviewDesign.
const (
	PenaltyNoSampleSize  = 20
	PenaltySmallMAB      = 10
	PenaltyNoVariables   = 20
	PenaltyCMABNoContext = 15
	smallMABSampleSize   = 100
)

// ReviewDesign scores s from 0 to 100.
//
// The cmab context penalty is only evaluated when at least one variable is
// defined; an empty variable list is already covered by PenaltyNoVariables.
func ReviewDesign(s State) Review {
	r := Review{Score: 100}

	if !s.HasSampleSize() {
		r.Score -= PenaltyNoSampleSize
		r.Findings = append(r.Findings, "No sample size has been set.")
	} else if s.ExperimentType == TypeMAB && s.SampleSize < smallMABSampleSize {
		r.Score -= PenaltySmallMAB
		r.Findings = append(r.Findings, "Sample size is small for a multi-armed bandit; exploration may not converge.")
	}

	if len(s.Variables) == 0 {
		r.Score -= PenaltyNoVariables
		r.Findings = append(r.Findings, "No variables are defined.")
	} else if s.ExperimentType == TypeCMAB && len(s.VariablesOfType(VariableContext)) == 0 {
		r.Score -= PenaltyCMABNoContext
		r.Findings = append(r.Findings, "Contextual MAB has no context variables.")
	}

	if r.Score < 0 {
		r.Score = 0
	}
	r.Suggestions = DesignTips(s.ExperimentType)
	return r
}

// DesignTips returns the static guidance for an experiment type.
func DesignTips(t ExperimentType) []string {
	switch t {
	case TypeCMAB:
		return []string{
			"Identify relevant contextual variables that may affect outcomes",
			"Ensure context variables are available at decision time",
			"Select appropriate context features to avoid overfitting",
			"Consider how context influences which arm performs best",
		}
	case TypeBayesianAB:
		return []string{
			"Define a clear success metric before starting",
			"Set appropriate priors based on existing knowledge",
			"Consider appropriate sample sizes for reliable results",
			"Determine stopping criteria based on posterior probability",
		}
	default:
		return []string{
			"Define clear rewards that reflect your business objectives",
			"Choose appropriate priors based on your domain knowledge",
			"Consider the exploration-exploitation tradeoff",
			"Plan how long your experiment needs to run",
		}
	}
}
