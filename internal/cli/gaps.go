package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/novelty/internal/model"
	"github.com/ppiankov/novelty/internal/parse"
	"github.com/ppiankov/novelty/internal/verify"
)

var uniqueOnly bool

// gapsCmd represents the gaps command
var gapsCmd = &cobra.Command{
	Use:   "gaps <file>",
	Short: "Verify content-gap proposals from a language model",
	Long: `Gaps reads raw language-model output proposing content gaps, recovers
the gap records even from fenced or truncated JSON, and checks each gap
title against a sample of the catalog using embeddings only.

Example:
  novelty gaps gaps.txt --catalog titles.txt
  novelty gaps gaps.txt --catalog-source qdrant --collection articles --unique-only`,
	Args: cobra.ExactArgs(1),
	RunE: runGaps,
}

func init() {
	rootCmd.AddCommand(gapsCmd)

	gapsCmd.Flags().Float64Var(&threshold, "threshold", 0, "uniqueness threshold (default: verify.gap_threshold)")
	gapsCmd.Flags().BoolVar(&jsonOutput, "json", false, "print outcomes as JSON")
	gapsCmd.Flags().BoolVar(&uniqueOnly, "unique-only", false, "only print gaps verified as unique")
	gapsCmd.Flags().DurationVar(&runTimeout, "timeout", 10*time.Minute, "overall timeout")
	addProviderFlags(gapsCmd)
}

func runGaps(cmd *cobra.Command, args []string) error {
	raw, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read gaps file: %w", err)
	}

	gaps, err := parseGaps(string(raw))
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

	reqs := make([]verify.Request, len(gaps))
	for i, g := range gaps {
		reqs[i] = verify.Request{
			Candidate: g.Candidate(),
			Catalog:   entries,
			Threshold: threshold,
			Mode:      verify.ModeGap,
		}
	}

	outcomes := engine.VerifyMany(ctx, reqs)
	if uniqueOnly {
		outcomes = filterUnique(outcomes)
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		return renderJSON(out, outcomes)
	}
	renderOutcomes(out, outcomes, 0)
	return nil
}

// parseGaps recovers gap records with a title from model output
func parseGaps(raw string) ([]model.GapIdea, error) {
	result := parse.Records(raw, func(g model.GapIdea) bool {
		return strings.TrimSpace(g.Title) != ""
	})
	if !result.OK() {
		return nil, fmt.Errorf("no gap records found: %s", result.Reason)
	}
	if len(result.Value) == 0 {
		return nil, fmt.Errorf("no gap records with a title found")
	}
	return result.Value, nil
}

func filterUnique(outcomes []verify.Outcome) []verify.Outcome {
	kept := outcomes[:0]
	for _, o := range outcomes {
		if o.Verdict.IsUnique {
			kept = append(kept, o)
		}
	}
	return kept
}
