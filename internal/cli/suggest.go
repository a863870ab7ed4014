package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/interpretive-systems/expwiz/internal/experiment"
	"github.com/interpretive-systems/expwiz/internal/logging"
	"github.com/interpretive-systems/expwiz/internal/suggest"
)

type suggestFlags struct {
	domain     string
	focus      string
	expType    string
	sampleSize int
	mde        float64
	variables  []string
	clusters   []string
}

func newSuggestCmd() *cobra.Command {
	var f suggestFlags
	cmd := &cobra.Command{
		Use:   "suggest",
		Short: "Print every suggestion kind without opening the wizard",
		Long: "Fetches name, sample size, randomization and variable suggestions concurrently.\n" +
			"Requests that fail print the offline default instead.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSuggest(cmd, f)
		},
	}
	cmd.Flags().StringVar(&f.domain, "domain", string(experiment.DomainDefault), "Experiment domain: default, education, healthcare, financial")
	cmd.Flags().StringVar(&f.focus, "focus", "", "What the experiment focuses on")
	cmd.Flags().StringVar(&f.expType, "type", string(experiment.TypeMAB), "Experiment type: mab, cmab, bayesian_ab (empty for a general experiment)")
	cmd.Flags().IntVar(&f.sampleSize, "sample-size", 0, "Sample size used for the randomization prompt")
	cmd.Flags().Float64Var(&f.mde, "mde", experiment.DefaultPowerCalculation().MDE, "Minimum detectable effect used to describe the expected effect")
	cmd.Flags().StringSliceVar(&f.variables, "variable", nil, "Known variable, repeatable")
	cmd.Flags().StringSliceVar(&f.clusters, "cluster", nil, "Natural cluster, repeatable")
	return cmd
}

func runSuggest(cmd *cobra.Command, f suggestFlags) error {
	domain, err := parseDomain(f.domain)
	if err != nil {
		return err
	}
	expType, err := parseExperimentType(f.expType)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log, err := logging.New(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile, Stderr: true})
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx := cmd.Context()
	client, err := newSuggestClient(ctx, cfg, log, nil)
	if err != nil {
		return err
	}
	if cfg.Simple() {
		expType = ""
	}

	params := suggest.Params{
		Domain:         domain,
		Focus:          strings.TrimSpace(f.focus),
		ExperimentType: expType,
		ExpectedEffect: experiment.EffectLabel(f.mde),
		SampleSize:     f.sampleSize,
		Variables:      f.variables,
		Clusters:       f.clusters,
	}

	kinds := suggest.Kinds()
	results := make([]suggest.Suggestion, len(kinds))
	g, gctx := errgroup.WithContext(ctx)
	for i, k := range kinds {
		if k == suggest.KindRandomization && params.SampleSize <= 0 {
			results[i] = suggest.Suggestion{Kind: k}
			continue
		}
		g.Go(func() error {
			results[i] = client.Request(gctx, suggest.Request{Kind: k, Params: params})
			log.Debug("suggestion ready", zap.String("kind", string(k)), zap.Bool("fallback", results[i].Fallback))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	for i, s := range results {
		if i > 0 {
			fmt.Fprintln(w)
		}
		printSuggestion(w, s, params)
	}
	return nil
}

var kindHeadings = map[suggest.Kind]string{
	suggest.KindTitle:         "Experiment names",
	suggest.KindSampleSize:    "Sample size",
	suggest.KindRandomization: "Randomization method",
	suggest.KindVariables:     "Variables",
}

func printSuggestion(w io.Writer, s suggest.Suggestion, p suggest.Params) {
	heading := kindHeadings[s.Kind]
	if s.Fallback {
		heading += " (offline default)"
	}
	fmt.Fprintln(w, heading)

	if s.Kind == suggest.KindRandomization && p.SampleSize <= 0 {
		fmt.Fprintf(w, "  %s\n", suggest.PendingRandomization)
		return
	}
	for _, v := range s.Values {
		if s.Kind == suggest.KindRandomization {
			if m, ok := experiment.ParseRandomizationMethod(v); ok {
				v = m.Label()
			}
		}
		fmt.Fprintf(w, "  - %s\n", v)
	}
	if s.Explanation != "" {
		fmt.Fprintf(w, "  %s\n", s.Explanation)
	}
}

func parseDomain(s string) (experiment.Domain, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, d := range experiment.Domains() {
		if string(d) == s {
			return d, nil
		}
	}
	return "", fmt.Errorf("unknown domain %q", s)
}

func parseExperimentType(s string) (experiment.ExperimentType, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "", nil
	}
	for _, t := range experiment.ExperimentTypes() {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown experiment type %q", s)
}
