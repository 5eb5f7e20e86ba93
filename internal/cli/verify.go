package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/novelty/internal/catalog"
	"github.com/ppiankov/novelty/internal/model"
	"github.com/ppiankov/novelty/internal/verify"
)

var (
	supportingText string
	keywordFocus   string
	ideasFile      string
	threshold      float64
	jsonOutput     bool
	runTimeout     time.Duration
	showPairs      int
)

// verifyCmd represents the verify command
var verifyCmd = &cobra.Command{
	Use:   "verify [title]",
	Short: "Verify that content ideas are unique against the catalog",
	Long: `Verify compares candidate ideas with the existing catalog:
- Narrow the catalog to the entries most related to the candidate
- Score title similarity with a language model (lexical fallback)
- Score content similarity with embeddings
- Blend both scores and threshold the maximum into a verdict

Example:
  novelty verify "React File Upload Tutorial" --catalog titles.txt
  novelty verify "OCR for Forms" --text "Extract fields from scans" --keyword "ocr api"
  novelty verify --ideas ideas.json --catalog titles.txt --concurrency 4 --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)

	verifyCmd.Flags().StringVar(&supportingText, "text", "", "supporting text of the idea (e.g. value proposition)")
	verifyCmd.Flags().StringVar(&keywordFocus, "keyword", "", "keyword focus used to pre-filter the catalog")
	verifyCmd.Flags().StringVar(&ideasFile, "ideas", "", "file of ideas to verify (.txt, .json, .yaml)")
	verifyCmd.Flags().Float64Var(&threshold, "threshold", 0, "uniqueness threshold (default: verify.idea_threshold)")
	verifyCmd.Flags().BoolVar(&jsonOutput, "json", false, "print outcomes as JSON")
	verifyCmd.Flags().DurationVar(&runTimeout, "timeout", 10*time.Minute, "overall timeout")
	verifyCmd.Flags().IntVar(&showPairs, "pairs", 0, "show the N most similar entries per idea")
	addProviderFlags(verifyCmd)
}

func runVerify(cmd *cobra.Command, args []string) error {
	candidates, err := verifyCandidates(args)
	if err != nil {
		return err
	}

	if err := bindFlags(cmd, viper.GetViper()); err != nil {
		return err
	}
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}
	if noCache, _ := cmd.Flags().GetBool("no-cache"); noCache {
		cfg.Cache.Enabled = false
	}
	logger := newLogger(cfg)

	ctx, cancel := context.WithTimeout(cmd.Context(), runTimeout)
	defer cancel()

	entries, err := loadCatalog(ctx, cfg, logger)
	if err != nil {
		return err
	}

	engine, err := buildEngine(ctx, cfg, logger)
	if err != nil {
		return err
	}

	reqs := make([]verify.Request, len(candidates))
	for i, c := range candidates {
		reqs[i] = verify.Request{
			Candidate: c,
			Catalog:   entries,
			Threshold: threshold,
			Mode:      verify.ModeIdea,
		}
	}

	outcomes := engine.VerifyMany(ctx, reqs)

	out := cmd.OutOrStdout()
	if jsonOutput {
		return renderJSON(out, outcomes)
	}
	renderOutcomes(out, outcomes, showPairs)
	return nil
}

// verifyCandidates builds candidates from the title argument or --ideas
func verifyCandidates(args []string) ([]model.CandidateIdea, error) {
	switch {
	case ideasFile != "" && len(args) > 0:
		return nil, fmt.Errorf("give either a title or --ideas, not both")
	case ideasFile != "":
		ideas, err := catalog.ReadIdeas(ideasFile)
		if err != nil {
			return nil, err
		}
		if len(ideas) == 0 {
			return nil, fmt.Errorf("no ideas found in %s", ideasFile)
		}
		return ideas, nil
	case len(args) == 1:
		title := model.CleanTitle(args[0])
		if title == "" {
			return nil, fmt.Errorf("title cannot be empty")
		}
		return []model.CandidateIdea{{
			Title:          title,
			SupportingText: supportingText,
			KeywordFocus:   keywordFocus,
		}}, nil
	default:
		return nil, fmt.Errorf("a title or --ideas is required")
	}
}
