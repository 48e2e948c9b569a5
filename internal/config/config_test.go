package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/valpere/recast/internal/humanize"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "recast.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestDefaults_AreValid(t *testing.T) {
	if err := validate(Defaults()); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
provider:
  name: ollama
  model: qwen3:14b
  timeout: 90s
pipeline:
  platforms: [LinkedIn, Reddit]
  audience: platform engineers
  variations: 4
  parallel: 2
humanize:
  extra_words:
    - term: synergy
      alternatives: [teamwork]
  extra_phrases:
    - phrase: at the end of the day
      simple: finally
history:
  enabled: false
logging:
  level: debug
  format: json
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Provider.Name != "ollama" || cfg.Provider.Model != "qwen3:14b" {
		t.Errorf("unexpected provider %+v", cfg.Provider)
	}
	if cfg.Provider.Timeout != 90*time.Second {
		t.Errorf("expected 90s timeout, got %s", cfg.Provider.Timeout)
	}
	if cfg.Provider.RequestsPerSecond != 2 {
		t.Errorf("expected default rate to survive, got %g", cfg.Provider.RequestsPerSecond)
	}
	if len(cfg.Pipeline.Platforms) != 2 || cfg.Pipeline.Platforms[1] != "Reddit" {
		t.Errorf("unexpected platforms %v", cfg.Pipeline.Platforms)
	}
	if cfg.Pipeline.Variations != 4 || cfg.Pipeline.Parallel != 2 {
		t.Errorf("unexpected pipeline %+v", cfg.Pipeline)
	}
	if !cfg.Pipeline.Critic {
		t.Error("expected critic default to survive")
	}
	if len(cfg.Humanize.ExtraWords) != 1 || cfg.Humanize.ExtraWords[0].Alternatives[0] != "teamwork" {
		t.Errorf("unexpected extra words %+v", cfg.Humanize.ExtraWords)
	}
	if cfg.History.Enabled {
		t.Error("expected history disabled")
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Errorf("unexpected logging %+v", cfg.Logging)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	path := writeConfig(t, "provider:\n  name: groq\n")
	t.Setenv("RECAST_PROVIDER_NAME", "openrouter")
	t.Setenv("RECAST_PIPELINE_PARALLEL", "7")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Provider.Name != "openrouter" {
		t.Errorf("expected env provider, got %q", cfg.Provider.Name)
	}
	if cfg.Pipeline.Parallel != 7 {
		t.Errorf("expected env parallel, got %d", cfg.Pipeline.Parallel)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"bad log level", "logging:\n  level: loud\n", "invalid log level"},
		{"bad log format", "logging:\n  format: xml\n", "invalid log format"},
		{"zero parallel", "pipeline:\n  parallel: 0\n", "invalid parallel"},
		{"too many variations", "pipeline:\n  variations: 9\n", "invalid variations"},
		{"word without alternatives", "humanize:\n  extra_words:\n    - term: synergy\n", "invalid humanize word"},
		{"empty history path", "history:\n  enabled: true\n  path: \"\"\n", "history.path"},
		{"malformed yaml", "provider: [unclosed\n", "failed to read config file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestConfig_Humanizer(t *testing.T) {
	cfg := Defaults()
	cfg.Humanize.ExtraPhrases = []humanize.Simplification{{Phrase: "at the end of the day", Simple: "finally"}}

	h, err := cfg.Humanizer()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := h.Humanize("At the end of the day we shipped."); got != "Finally we shipped." {
		t.Errorf("extra phrase not applied: %q", got)
	}
}

func TestConfig_PipelineOptions(t *testing.T) {
	cfg := Defaults()
	cfg.Humanize.Disabled = true

	opts := cfg.PipelineOptions()
	if opts.Parallel != cfg.Pipeline.Parallel || opts.Variations != cfg.Pipeline.Variations {
		t.Errorf("unexpected options %+v", opts)
	}
	if !opts.NoHumanize {
		t.Error("expected humanizer disabled")
	}
}
