package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/novelty/internal/model"
	"github.com/ppiankov/novelty/internal/verify"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := loadConfig(viper.New())
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}
	if cfg.Verify.IdeaThreshold != 0.65 || cfg.Verify.GapThreshold != 0.60 {
		t.Errorf("unexpected thresholds: %+v", cfg.Verify)
	}
	if cfg.LLM.Timeout != 30*time.Second {
		t.Errorf("expected 30s timeout, got %v", cfg.LLM.Timeout)
	}
	if cfg.LLM.APIKey != "sk-test" || cfg.Embedding.APIKey != "sk-test" {
		t.Errorf("expected API keys from OPENAI_API_KEY, got %q / %q", cfg.LLM.APIKey, cfg.Embedding.APIKey)
	}
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
verify:
  idea_threshold: 0.7
  judge_batch_size: 10
pacing:
  judge_delay: 1s
llm:
  provider: anthropic
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant")
	t.Setenv("NOVELTY_VERIFY_GAP_THRESHOLD", "0.5")

	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix("NOVELTY")
	v.SetEnvKeyReplacer(envKeyReplacer)
	v.AutomaticEnv()
	if err := v.ReadInConfig(); err != nil {
		t.Fatalf("read config: %v", err)
	}

	cfg, err := loadConfig(v)
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}
	if cfg.Verify.IdeaThreshold != 0.7 || cfg.Verify.JudgeBatchSize != 10 {
		t.Errorf("file values not applied: %+v", cfg.Verify)
	}
	if cfg.Verify.GapThreshold != 0.5 {
		t.Errorf("env override not applied: %v", cfg.Verify.GapThreshold)
	}
	if cfg.Verify.EmbedBatchSize != 50 {
		t.Errorf("unset keys must keep defaults, got %d", cfg.Verify.EmbedBatchSize)
	}
	if cfg.Pacing.JudgeDelay != time.Second {
		t.Errorf("expected 1s judge delay, got %v", cfg.Pacing.JudgeDelay)
	}
	if cfg.LLM.APIKey != "sk-ant" {
		t.Errorf("expected anthropic key, got %q", cfg.LLM.APIKey)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	v := viper.New()
	v.Set("verify.idea_threshold", 1.5)

	if _, err := loadConfig(v); err == nil || !strings.Contains(err.Error(), "idea_threshold") {
		t.Errorf("expected idea_threshold error, got %v", err)
	}
}

func TestParseGaps(t *testing.T) {
	raw := "Here are the gaps:\n```json\n[{\"title\": \"How to: Resize Images\", \"value_proposition\": \"Fast\"}, {\"category\": \"no title\"}, {\"title\": \"OCR in Go\"}]\n```"

	gaps, err := parseGaps(raw)
	if err != nil {
		t.Fatalf("parseGaps failed: %v", err)
	}
	if len(gaps) != 2 {
		t.Fatalf("expected 2 titled gaps, got %d", len(gaps))
	}
	if got := gaps[0].Candidate().Title; got != "How to Resize Images" {
		t.Errorf("unexpected cleaned title: %q", got)
	}

	if _, err := parseGaps("no json here"); err == nil {
		t.Error("expected error for output without records")
	}
}

func TestVerifyCandidates(t *testing.T) {
	defer func() { ideasFile, supportingText, keywordFocus = "", "", "" }()

	supportingText, keywordFocus = "Extract fields", "ocr"
	got, err := verifyCandidates([]string{"OCR: for Forms"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := model.CandidateIdea{Title: "OCR for Forms", SupportingText: "Extract fields", KeywordFocus: "ocr"}
	if len(got) != 1 || got[0] != want {
		t.Errorf("got %+v, want %+v", got, want)
	}

	if _, err := verifyCandidates(nil); err == nil {
		t.Error("expected error without title or --ideas")
	}

	ideasFile = "ideas.txt"
	if _, err := verifyCandidates([]string{"x"}); err == nil {
		t.Error("expected error with both title and --ideas")
	}
}

func TestRenderOutcomes(t *testing.T) {
	color.NoColor = true

	outcomes := []verify.Outcome{
		{
			Candidate: model.CandidateIdea{Title: "React File Upload Tutorial"},
			Verdict: model.UniquenessVerdict{
				IsUnique: false, MaxSimilarity: 0.915, Confidence: model.ConfidenceLow,
				MostSimilarEntry: "File Uploads with React", EntriesChecked: 1,
			},
			Pairs: []model.SimilarityPair{{Entry: model.CatalogEntry{Title: "File Uploads with React"}, CombinedScore: 0.915, TitleScore: 0.9, ContentScore: 0.95}},
		},
		{
			Candidate: model.CandidateIdea{Title: "OCR for Forms"},
			Verdict:   model.UniquenessVerdict{IsUnique: true, MaxSimilarity: 0.5, Confidence: model.ConfidenceLow, MostSimilarEntry: model.VerificationFailed, Degraded: true, Reason: "candidate embedding failed"},
		},
	}

	var buf bytes.Buffer
	renderOutcomes(&buf, outcomes, 1)
	out := buf.String()

	for _, want := range []string{"DUPLICATE", "UNIQUE", "0.915", "File Uploads with React", "degraded: candidate embedding failed", "1 of 2 unique"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := renderJSON(&buf, []verify.Outcome{{Candidate: model.CandidateIdea{Title: "x"}}}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"is_unique": false`) {
		t.Errorf("unexpected JSON: %s", buf.String())
	}
}

func TestWriteDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "novelty", "config.yaml")

	if err := writeDefaultConfig(path); err != nil {
		t.Fatalf("writeDefaultConfig failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var cfg model.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		t.Fatalf("written config is not valid YAML: %v", err)
	}
	if cfg.Verify.IdeaThreshold != 0.65 {
		t.Errorf("unexpected idea threshold: %v", cfg.Verify.IdeaThreshold)
	}

	if err := writeDefaultConfig(path); err == nil {
		t.Error("expected error when the file exists")
	}
}

func TestRedact(t *testing.T) {
	cfg := *model.DefaultConfig()
	cfg.LLM.APIKey = "sk-secret"
	cfg.Catalog.PostgresDSN = "postgres://u:p@h/db"

	r := redact(cfg)
	if r.LLM.APIKey != "****" || r.Catalog.PostgresDSN != "****" || r.Embedding.APIKey != "" {
		t.Errorf("unexpected redaction: %+v", r)
	}
	if cfg.LLM.APIKey != "sk-secret" {
		t.Error("redact must not modify its input")
	}
}
