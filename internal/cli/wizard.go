package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/interpretive-systems/expwiz/internal/config"
	"github.com/interpretive-systems/expwiz/internal/logging"
	"github.com/interpretive-systems/expwiz/internal/suggest"
	"github.com/interpretive-systems/expwiz/internal/tui"
)

func newWizardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wizard",
		Short: "Open the experiment design wizard",
		RunE:  runWizard,
	}
	addWizardFlags(cmd)
	return cmd
}

func addWizardFlags(cmd *cobra.Command) {
	cmd.Flags().String("metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9090)")
}

// errNoTerminal is returned when the wizard is started without a terminal.
var errNoTerminal = errors.New("the wizard needs an interactive terminal; use `expwiz suggest` for headless output")

var isTerminal = func(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func runWizard(cmd *cobra.Command, _ []string) error {
	if !isTerminal(os.Stdin.Fd()) || !isTerminal(os.Stdout.Fd()) {
		return errNoTerminal
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	// The TUI owns the terminal, so logs only go to a file.
	log, err := logging.New(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile})
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx := cmd.Context()
	var metrics *suggest.Metrics
	if addr, _ := cmd.Flags().GetString("metrics-addr"); addr != "" {
		reg := prometheus.NewRegistry()
		metrics = suggest.NewMetrics(reg)
		stop, err := serveMetrics(ctx, addr, reg, log)
		if err != nil {
			return err
		}
		defer stop()
	}

	client, err := newSuggestClient(ctx, cfg, log, metrics)
	if err != nil {
		return err
	}

	log.Info("starting wizard", zap.String("mode", cfg.Mode), zap.String("provider", cfg.Suggest.Provider))
	return tui.Run(ctx, tui.Options{
		Client:      client,
		Logger:      log,
		Simple:      cfg.Simple(),
		Theme:       cfg.Theme,
		ReviewDelay: cfg.Review.Delay,
	})
}

// newSuggestClient builds the configured provider and wraps it in a client.
func newSuggestClient(ctx context.Context, cfg *config.Config, log *zap.Logger, metrics *suggest.Metrics) (*suggest.Client, error) {
	provider, err := suggest.NewProvider(ctx, suggest.ProviderConfig{
		Name:          cfg.Suggest.Provider,
		Model:         cfg.Suggest.Model,
		GeminiAPIKey:  cfg.Suggest.GeminiAPIKey,
		GeminiBaseURL: cfg.Suggest.GeminiBaseURL,
		OpenAIAPIKey:  cfg.Suggest.OpenAIAPIKey,
		OpenAIBaseURL: cfg.Suggest.OpenAIBaseURL,
	})
	if err != nil {
		return nil, err
	}
	if u, ok := provider.(suggest.Unavailable); ok {
		log.Info("suggestions use offline defaults", zap.String("reason", u.Reason))
	}
	opts := []suggest.Option{
		suggest.WithLogger(log),
		suggest.WithTimeout(cfg.Suggest.Timeout),
	}
	if metrics != nil {
		opts = append(opts, suggest.WithMetrics(metrics))
	}
	return suggest.NewClient(provider, opts...), nil
}

// serveMetrics exposes reg on addr until the returned func is called.
func serveMetrics(ctx context.Context, addr string, reg *prometheus.Registry, log *zap.Logger) (func(), error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("metrics listener: %w", err)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics server stopped", zap.Error(err))
		}
	}()
	log.Info("serving metrics", zap.String("addr", ln.Addr().String()))

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}, nil
}
