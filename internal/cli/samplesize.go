package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/interpretive-systems/expwiz/internal/experiment"
)

func newSampleSizeCmd() *cobra.Command {
	def := experiment.DefaultPowerCalculation()
	var (
		pc      experiment.PowerCalculation
		expType string
	)
	cmd := &cobra.Command{
		Use:   "samplesize",
		Short: "Print the calculator's sample size",
		Long: "Applies the wizard's sample size heuristic. It is a lookup table over the\n" +
			"offered choices, not a power analysis.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			t, err := parseExperimentType(expType)
			if err != nil {
				return err
			}
			if err := checkChoice("mde", pc.MDE, experiment.MDEChoices); err != nil {
				return err
			}
			if err := checkChoice("power", pc.Power, experiment.PowerChoices); err != nil {
				return err
			}
			if err := checkChoice("alpha", pc.Alpha, experiment.AlphaChoices); err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Calculated sample size: %d\n", experiment.CalculateSampleSize(pc, t))
			fmt.Fprintln(w, experiment.PrecisionLabel(pc.MDE))
			if t != "" {
				fmt.Fprintln(w, experiment.SampleSizeNote(t))
			}
			return nil
		},
	}
	cmd.Flags().Float64Var(&pc.MDE, "mde", def.MDE, "Minimum detectable effect: 0.1, 0.2 or 0.5")
	cmd.Flags().Float64Var(&pc.Power, "power", def.Power, "Statistical power: 0.7, 0.8 or 0.9")
	cmd.Flags().Float64Var(&pc.Alpha, "alpha", def.Alpha, "Significance level: 0.01, 0.05 or 0.1")
	cmd.Flags().StringVar(&expType, "type", string(experiment.TypeMAB), "Experiment type: mab, cmab, bayesian_ab (empty for a general experiment)")
	return cmd
}

func checkChoice(name string, v float64, choices []float64) error {
	for _, c := range choices {
		if c == v {
			return nil
		}
	}
	return fmt.Errorf("--%s %g is not one of %v", name, v, choices)
}
