package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")
	t.Chdir(dir)
	return dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := NewRootCmd()
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(&errOut)
	err := root.Execute()
	return out.String(), err
}

func TestSampleSizeCommand(t *testing.T) {
	isolate(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"defaults", nil, "Calculated sample size: 120"},
		{"general", []string{"--type", ""}, "Calculated sample size: 100"},
		{"cmab large effect", []string{"--type", "cmab", "--mde", "0.5"}, "Calculated sample size: 24"},
		{"small effect", []string{"--mde", "0.1", "--type", ""}, "Calculated sample size: 400"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, append([]string{"samplesize"}, tt.args...)...)
			require.NoError(t, err)
			require.Contains(t, out, tt.want)
		})
	}
}

func TestSampleSizeCommandRejectsUnknownChoice(t *testing.T) {
	isolate(t)

	_, err := run(t, "samplesize", "--mde", "0.3")
	require.ErrorContains(t, err, "--mde 0.3 is not one of")

	_, err = run(t, "samplesize", "--type", "xyz")
	require.ErrorContains(t, err, `unknown experiment type "xyz"`)
}

func TestSuggestCommandOffline(t *testing.T) {
	isolate(t)

	out, err := run(t, "suggest", "--provider", "none", "--domain", "education", "--focus", "SMS")
	require.NoError(t, err)
	require.Contains(t, out, "Experiment names (offline default)")
	require.Contains(t, out, "  - Impact of Intervention on SMS in education")
	require.Contains(t, out, "Sample size (offline default)\n  - 500")
	require.Contains(t, out, "Randomization method\n  "+"Please set your sample size first")
	require.Contains(t, out, "  - Test Scores")
}

func TestSuggestCommandWithProvider(t *testing.T) {
	isolate(t)

	replies := map[string]string{
		"professional titles":            `["SMS Reminders and Attendance", "Nudging Attendance"]`,
		"recommendation for sample size": `{"suggestion": 900, "explanation": "Plenty of power."}`,
		"best randomization method":      `{"suggestion": "cluster", "explanation": "Schools are natural clusters."}`,
		"key variables":                  `["Attendance Rate", "Grade Level"]`,
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Messages []struct {
				Content string `json:"content"`
			} `json:"messages"`
		}
		if !assert.NoError(t, json.NewDecoder(r.Body).Decode(&req)) || !assert.NotEmpty(t, req.Messages) {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		prompt := req.Messages[len(req.Messages)-1].Content
		content := ""
		for marker, reply := range replies {
			if strings.Contains(prompt, marker) {
				content = reply
			}
		}
		body, _ := json.Marshal(map[string]any{
			"id":     "1",
			"object": "chat.completion",
			"choices": []map[string]any{{
				"index":         0,
				"message":       map[string]string{"role": "assistant", "content": content},
				"finish_reason": "stop",
			}},
		})
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(body)
	}))
	defer srv.Close()

	t.Setenv("OPENAI_API_KEY", "k")
	t.Setenv("EXPWIZ_SUGGEST_OPENAI_BASE_URL", srv.URL)

	out, err := run(t, "suggest", "--provider", "openai", "--domain", "education", "--focus", "SMS", "--sample-size", "300")
	require.NoError(t, err)
	require.NotContains(t, out, "offline default")
	require.Contains(t, out, "  - SMS Reminders and Attendance")
	require.Contains(t, out, "Sample size\n  - 900\n  Plenty of power.")
	require.Contains(t, out, "  - Cluster Randomization")
	require.Contains(t, out, "  - Grade Level")
}

func TestSuggestCommandRejectsUnknownDomain(t *testing.T) {
	isolate(t)

	_, err := run(t, "suggest", "--domain", "space")
	require.ErrorContains(t, err, `unknown domain "space"`)
}

func TestUnknownProvider(t *testing.T) {
	isolate(t)

	_, err := run(t, "suggest", "--provider", "bard")
	require.ErrorContains(t, err, `unknown suggestion provider "bard"`)
}

func TestConfigShowAppliesFlags(t *testing.T) {
	isolate(t)

	out, err := run(t, "config", "show", "--mode", "simple", "--log-level", "debug")
	require.NoError(t, err)
	require.Contains(t, out, "mode: simple")
	require.Contains(t, out, "log_level: debug")
}

func TestConfigShowRejectsBadMode(t *testing.T) {
	isolate(t)

	_, err := run(t, "config", "show", "--mode", "turbo")
	require.ErrorContains(t, err, `invalid mode "turbo"`)
}

func TestConfigInit(t *testing.T) {
	dir := isolate(t)
	t.Setenv("OPENAI_API_KEY", "secret")

	out, err := run(t, "config", "init", "--project", "--provider", "openai")
	require.NoError(t, err)
	require.Equal(t, fmt.Sprintf("Wrote %s\n", "expwiz.yml"), out)

	data, err := os.ReadFile(filepath.Join(dir, "expwiz.yml"))
	require.NoError(t, err)
	require.Contains(t, string(data), "provider: openai")
	require.NotContains(t, string(data), "secret")

	out, err = run(t, "config", "init")
	require.NoError(t, err)
	require.Contains(t, out, filepath.Join(dir, "xdg", "expwiz", "expwiz.yml"))
	// The project file written above is merged into the effective config.
	data, err = os.ReadFile(filepath.Join(dir, "xdg", "expwiz", "expwiz.yml"))
	require.NoError(t, err)
	require.Contains(t, string(data), "provider: openai")
}

func TestWizardNeedsTerminal(t *testing.T) {
	isolate(t)
	orig := isTerminal
	isTerminal = func(uintptr) bool { return false }
	t.Cleanup(func() { isTerminal = orig })

	_, err := run(t)
	require.ErrorIs(t, err, errNoTerminal)

	_, err = run(t, "wizard", "--metrics-addr", ":0")
	require.ErrorIs(t, err, errNoTerminal)
}
