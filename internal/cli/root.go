// Package cli wires the expwiz cobra commands.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/interpretive-systems/expwiz/internal/config"
)

// Execute runs the root command until it returns or the process is interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		return fmt.Errorf("execute: %w", err)
	}
	return nil
}

// NewRootCmd builds the command tree. Running the root without a subcommand
// opens the wizard.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "expwiz",
		Short: "AI-assisted experiment design wizard",
		Long: "expwiz walks through designing an adaptive experiment in five steps,\n" +
			"asking a language model for names, sample sizes, randomization methods and variables.",
		SilenceUsage: true,
		RunE:         runWizard,
	}

	pf := root.PersistentFlags()
	pf.String("config", "", "Path to a config file (replaces global and project files)")
	pf.String("mode", "", "Wizard mode: simple or enhanced")
	pf.String("provider", "", "Suggestion provider: auto, gemini, openai or none")
	pf.String("log-file", "", "Write logs to this file")
	pf.String("log-level", "", "Log level: debug, info, warn, error")
	addWizardFlags(root)

	root.AddCommand(newWizardCmd())
	root.AddCommand(newSuggestCmd())
	root.AddCommand(newSampleSizeCmd())
	root.AddCommand(newConfigCmd())
	return root
}

// flagKeys maps persistent flags to config keys.
var flagKeys = map[string]string{
	"mode":      "mode",
	"provider":  "suggest.provider",
	"log-file":  "log_file",
	"log-level": "log_level",
}

// loadViper reads configuration and layers the command's flags on top.
func loadViper(cmd *cobra.Command) (*viper.Viper, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	v, err := config.New(path)
	if err != nil {
		return nil, err
	}
	for flag, key := range flagKeys {
		if f := cmd.Flags().Lookup(flag); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("binding --%s: %w", flag, err)
			}
		}
	}
	return v, nil
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	v, err := loadViper(cmd)
	if err != nil {
		return nil, err
	}
	return config.Decode(v)
}
