package suggest

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/interpretive-systems/expwiz/internal/experiment"
)

// DefaultTimeout bounds a single provider call.
const DefaultTimeout = 20 * time.Second

// Client builds prompts, calls the provider and parses replies.
type Client struct {
	provider Provider
	log      *zap.Logger
	metrics  *Metrics
	timeout  time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger used for swallowed failures.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithMetrics records request outcomes.
func WithMetrics(m *Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithTimeout bounds each provider call. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// NewClient returns a client using p. A nil provider behaves like Unavailable.
func NewClient(p Provider, opts ...Option) *Client {
	if p == nil {
		p = Unavailable{}
	}
	c := &Client{
		provider: p,
		log:      zap.NewNop(),
		timeout:  DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Request returns a suggestion for req. It never fails: any provider or
// parse error is logged and the static default for the kind is returned.
func (c *Client) Request(ctx context.Context, req Request) (s Suggestion) {
	start := time.Now()
	outcome := outcomeOK
	defer func() {
		if r := recover(); r != nil {
			c.log.Error("suggestion request panicked", zap.String("kind", string(req.Kind)), zap.Any("panic", r))
			s = Default(req)
			outcome = outcomeFallback
		}
		c.metrics.observe(req.Kind, outcome, time.Since(start))
	}()

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	prompt := BuildPrompt(req)
	c.log.Debug("requesting suggestion", zap.String("kind", string(req.Kind)), zap.Int("prompt_bytes", len(prompt)))

	reply, err := c.provider.Generate(ctx, prompt)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			outcome = outcomeCanceled
		} else {
			outcome = outcomeFallback
		}
		c.log.Warn("suggestion provider failed, using default",
			zap.String("kind", string(req.Kind)),
			zap.Error(&NetworkError{Kind: req.Kind, Err: err}))
		return Default(req)
	}

	s, err = interpret(req, reply)
	if err != nil {
		outcome = outcomeFallback
		c.log.Warn("suggestion reply unreadable, using default",
			zap.String("kind", string(req.Kind)),
			zap.Error(err))
		return Default(req)
	}
	return s
}

// interpret parses reply and normalises it for the request kind.
func interpret(req Request, reply string) (Suggestion, error) {
	p, err := parseReply(req.Kind, reply)
	if err != nil {
		return Suggestion{}, &ParseError{Kind: req.Kind, Reply: reply, Err: err}
	}
	def := Default(req)
	s := Suggestion{Kind: req.Kind, Explanation: p.explanation}
	if s.Explanation == "" {
		s.Explanation = def.Explanation
	}

	switch req.Kind {
	case KindSampleSize:
		n, ok := firstPositiveInt(p.values[0])
		if !ok {
			return Suggestion{}, &ParseError{Kind: req.Kind, Reply: reply, Err: fmt.Errorf("%q is not a sample size", p.values[0])}
		}
		s.Values = []string{strconv.Itoa(n)}
	case KindRandomization:
		m, ok := findMethod(p.values[0])
		if !ok {
			return Suggestion{}, &ParseError{Kind: req.Kind, Reply: reply, Err: fmt.Errorf("%q names no randomization method", p.values[0])}
		}
		s.Values = []string{string(m)}
	default:
		s.Values = dedupe(p.values)
	}
	return s, nil
}

var integerRun = regexp.MustCompile(`\d[\d,]*`)

func firstPositiveInt(s string) (int, bool) {
	m := integerRun.FindString(s)
	if m == "" {
		return 0, false
	}
	n, err := strconv.Atoi(strings.ReplaceAll(m, ",", ""))
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// findMethod returns the randomization method named earliest in s.
func findMethod(s string) (experiment.RandomizationMethod, bool) {
	lower := strings.ToLower(s)
	best := -1
	var found experiment.RandomizationMethod
	for _, m := range experiment.RandomizationMethods() {
		if m == experiment.MethodUnset {
			continue
		}
		if i := strings.Index(lower, string(m)); i >= 0 && (best < 0 || i < best) {
			best = i
			found = m
		}
	}
	return found, best >= 0
}

func dedupe(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
