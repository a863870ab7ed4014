package suggest

import (
	"fmt"
	"strconv"

	"github.com/interpretive-systems/expwiz/internal/experiment"
)

var domainVariables = map[experiment.Domain][]string{
	experiment.DomainEducation:  {"Test Scores", "Attendance Rate", "Completion Rate"},
	experiment.DomainHealthcare: {"Treatment Adherence", "Recovery Time", "Symptom Severity"},
	experiment.DomainFinancial:  {"Savings Rate", "Loan Repayment", "Financial Knowledge Score"},
	experiment.DomainDefault:    {"Engagement", "Satisfaction", "Conversion Rate"},
}

// DefaultContexts are offered for contextual bandits when the model names none.
var DefaultContexts = []string{"Location", "Age Group", "Time of Day"}

// Default returns the static suggestion used when a request cannot be served.
func Default(req Request) Suggestion {
	p := req.Params
	s := Suggestion{Kind: req.Kind, Fallback: true}
	switch req.Kind {
	case KindTitle:
		s.Values = []string{
			fmt.Sprintf("Impact of Intervention on %s in %s", p.Focus, p.Domain),
			fmt.Sprintf("Evaluating %s Methods in %s Settings", p.Focus, p.Domain),
			fmt.Sprintf("%s %s Improvement Study", p.Domain, p.Focus),
		}
		s.Explanation = "A good experiment name should clearly indicate what you're testing and be specific enough to differentiate your experiment."
	case KindSampleSize:
		n, why := defaultSampleSize(p.ExperimentType)
		s.Values = []string{strconv.Itoa(n)}
		s.Explanation = why
	case KindRandomization:
		s.Values = []string{string(experiment.MethodSimple)}
		s.Explanation = "Simple randomization is efficient and adequate for your experiment size and requirements."
	case KindVariables:
		vars, ok := domainVariables[p.Domain]
		if !ok {
			vars = domainVariables[experiment.DomainDefault]
		}
		s.Values = append([]string(nil), vars...)
		s.Explanation = "These variables are commonly used in similar experiments and can help you measure important outcomes."
	}
	return s
}

func defaultSampleSize(t experiment.ExperimentType) (int, string) {
	switch t {
	case experiment.TypeMAB:
		return 500, "Multi-Armed Bandit experiments typically need larger sample sizes to account for exploration phases."
	case experiment.TypeCMAB:
		return 600, "Contextual MABs require larger samples to accurately model contextual effects."
	default:
		return 384, "This is a standard sample size for many experiments with medium effect sizes."
	}
}

// PendingRandomization is shown instead of a randomization request while no
// sample size is set.
const PendingRandomization = "Please set your sample size first to get appropriate randomization recommendations."
