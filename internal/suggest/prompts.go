package suggest

import (
	"fmt"
	"strings"
)

const titlePrompt = `
I'm designing an experiment in the %s domain focusing on %s.%s
Please suggest 3 clear, professional titles for this experiment.
Return only the titles as a JSON array of strings, like this: ["Title 1", "Title 2", "Title 3"]
`

const sampleSizePrompt = `
I need a recommendation for sample size in an experiment with these parameters:
- Experiment domain: %s
- Expected effect size: %s
- Experiment type: %s

Please provide your recommendation in this format:
{
  "suggestion": [numeric sample size],
  "explanation": "[explanation of why this sample size is appropriate]"
}
`

const randomizationPrompt = `
I need a recommendation for the best randomization method in an experiment with these parameters:
- Sample size: %d
- Variables that might affect outcomes: %s
- Natural clusters/groups: %s

Choose from these randomization methods: simple, stratified, cluster.

Please provide your recommendation in this format:
{
  "suggestion": "[randomization method]",
  "explanation": "[explanation of why this method is appropriate]"
}
`

const variablesPrompt = `
I'm designing an experiment in the %s domain.
Experiment type: %s

Please suggest 3-5 key variables that would be important to measure in this experiment.
Return only the variable names as a JSON array of strings, like this: ["Variable 1", "Variable 2", "Variable 3"]
`

// BuildPrompt renders the prompt for req.
func BuildPrompt(req Request) string {
	p := req.Params
	switch req.Kind {
	case KindTitle:
		typeLine := ""
		if p.ExperimentType != "" {
			typeLine = "\nExperiment type: " + string(p.ExperimentType)
		}
		return fmt.Sprintf(titlePrompt, p.Domain, p.Focus, typeLine)
	case KindSampleSize:
		return fmt.Sprintf(sampleSizePrompt, p.Domain, p.ExpectedEffect, typeOrGeneral(p))
	case KindRandomization:
		return fmt.Sprintf(randomizationPrompt, p.SampleSize, listOrNone(p.Variables), listOrNone(p.Clusters))
	case KindVariables:
		return fmt.Sprintf(variablesPrompt, p.Domain, typeOrGeneral(p))
	default:
		return ""
	}
}

func typeOrGeneral(p Params) string {
	if p.ExperimentType == "" {
		return "general"
	}
	return string(p.ExperimentType)
}

func listOrNone(items []string) string {
	if len(items) == 0 {
		return "None"
	}
	return strings.Join(items, ", ")
}
