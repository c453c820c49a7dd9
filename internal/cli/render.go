package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pexnet/sift-highlight/internal/model"
	"github.com/pexnet/sift-highlight/internal/pipeline"
	"github.com/pexnet/sift-highlight/internal/worker"
)

var (
	outJSON        string
	outHTML        string
	timeout        time.Duration
	noHighlights   bool
	noTermFallback bool
	noCache        bool
	maxTerms       int
)

// renderCmd represents the render command
var renderCmd = &cobra.Command{
	Use:   "render <article>",
	Short: "Highlight one article and explain why it matched",
	Long: `Render loads a single article document (JSON or YAML) and:
- Normalizes the evidence attached by each matching stream
- Marks matched spans in the sanitized HTML
- Falls back to term highlighting when offsets cannot be placed
- Summarizes matched terms, reasons and evidence rows

Example:
  sift-highlight render article.json
  sift-highlight render article.yaml --json report.json --html preview.html
  sift-highlight render article.json --no-highlights --max-terms 5`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)

	// Output flags
	renderCmd.Flags().StringVar(&outJSON, "json", "report.json", "output JSON path (empty to skip)")
	renderCmd.Flags().StringVar(&outHTML, "html", "", "output HTML preview path (optional)")

	// Highlight flags
	renderCmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "render timeout")
	renderCmd.Flags().BoolVar(&noHighlights, "no-highlights", false, "disable highlighting (explanations are still produced)")
	renderCmd.Flags().BoolVar(&noTermFallback, "no-term-fallback", false, "disable term highlighting when offsets cannot be placed")
	renderCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the render cache")
	renderCmd.Flags().IntVar(&maxTerms, "max-terms", 0, "matched terms to list before \"+N\" (default from config)")
}

func runRender(cmd *cobra.Command, args []string) error {
	path := args[0]
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyHighlightFlags(cmd, cfg)

	article, err := worker.ReadArticle(path)
	if err != nil {
		return fmt.Errorf("load article: %w", err)
	}
	logger.Debug("article loaded",
		zap.String("path", path),
		zap.String("article_id", article.ID),
		zap.Int("sources", len(article.Sources())))

	p := pipeline.NewPipeline(cfg, logger)

	result, err := p.RenderArticle(ctx, article)
	if err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	if err := p.RenderReport(cmd.OutOrStdout(), result.Report, outJSON, outHTML); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// applyHighlightFlags lets explicitly set command flags override configuration
func applyHighlightFlags(cmd *cobra.Command, cfg *model.Config) {
	if noHighlights {
		cfg.Highlight.ShowHighlights = false
	}
	if noTermFallback {
		cfg.Highlight.TermFallback = false
	}
	if noCache {
		cfg.Cache.Enabled = false
	}
	if cmd.Flags().Changed("max-terms") {
		cfg.Highlight.MaxTerms = maxTerms
	}
}
