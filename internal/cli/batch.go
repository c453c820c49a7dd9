package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pexnet/sift-highlight/internal/pipeline"
	"github.com/pexnet/sift-highlight/internal/worker"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
	batchRate    float64
	batchBurst   int
	writeHTML    bool
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <dir|file.jsonl>",
	Short: "Render many articles in parallel",
	Long: `Batch renders many articles concurrently:
- Read article documents from a directory (.json, .yaml, .yml) or a JSON Lines file
- Render articles in parallel with a configurable worker count
- Rate limit rendering per feed so one noisy feed cannot take every worker
- Write one report (and optionally one HTML preview) per article

Example:
  sift-highlight batch ./articles
  sift-highlight batch articles.jsonl --concurrency 8 --output-dir ./reports
  sift-highlight batch articles.jsonl --rate 20 --burst 40 --html`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	// Concurrency flags
	batchCmd.Flags().IntVar(&concurrency, "concurrency", runtime.NumCPU(), "number of concurrent workers")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./sift-highlight-reports", "output directory for reports")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")
	batchCmd.Flags().Float64Var(&batchRate, "rate", 0, "articles per second per feed (0 = unlimited)")
	batchCmd.Flags().IntVar(&batchBurst, "burst", 0, "per-feed burst size (default from config)")
	batchCmd.Flags().BoolVar(&writeHTML, "html", false, "also write an HTML preview per article")

	// Shared with render
	batchCmd.Flags().BoolVar(&noHighlights, "no-highlights", false, "disable highlighting (explanations are still produced)")
	batchCmd.Flags().BoolVar(&noTermFallback, "no-term-fallback", false, "disable term highlighting when offsets cannot be placed")
	batchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the render cache")
	batchCmd.Flags().IntVar(&maxTerms, "max-terms", 0, "matched terms to list before \"+N\" (default from config)")
}

func runBatch(cmd *cobra.Command, args []string) error {
	input := args[0]
	ctx, cancel := context.WithTimeout(cmd.Context(), batchTimeout)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyHighlightFlags(cmd, cfg)
	if cmd.Flags().Changed("concurrency") || cfg.Concurrency.Workers <= 0 {
		cfg.Concurrency.Workers = concurrency
	}
	if cmd.Flags().Changed("rate") {
		cfg.RateLimiting.ArticlesPerSecond = batchRate
	}
	if cmd.Flags().Changed("burst") {
		cfg.RateLimiting.BurstSize = batchBurst
	}

	if !cfg.Output.Color {
		color.NoColor = true
	}
	ok := color.New(color.FgGreen).SprintFunc()
	fail := color.New(color.FgRed).SprintFunc()
	bold := color.New(color.Bold).SprintFunc()

	out := cmd.ErrOrStderr()
	fmt.Fprintf(out, "\n%s\n\n", bold("sift-highlight batch"))
	fmt.Fprintf(out, "  Input:        %s\n", input)
	fmt.Fprintf(out, "  Workers:      %d\n", cfg.Concurrency.Workers)
	fmt.Fprintf(out, "  Output dir:   %s\n", outputDir)
	fmt.Fprintf(out, "  Timeout:      %v\n", batchTimeout)
	if cfg.RateLimiting.ArticlesPerSecond > 0 {
		fmt.Fprintf(out, "  Feed limit:   %.1f/s (burst %d)\n", cfg.RateLimiting.ArticlesPerSecond, cfg.RateLimiting.BurstSize)
	}
	fmt.Fprintln(out)

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	p := pipeline.NewPipeline(cfg, logger)
	processor := worker.NewBatchProcessor(p, cfg.Concurrency.Workers,
		cfg.RateLimiting.ArticlesPerSecond, cfg.RateLimiting.BurstSize, logger)

	started := time.Now()
	results, err := processor.ProcessPath(ctx, input)
	if err != nil {
		return fmt.Errorf("process input: %w", err)
	}

	renderer := p.Renderer()
	var succeeded, failed, cached int
	for _, result := range results {
		if result.Error != nil {
			failed++
			fmt.Fprintf(out, "%s %s: %v\n", fail("✗"), result.ArticleID, result.Error)
			continue
		}

		slug := sanitizeFilename(result.ArticleID)
		if err := renderer.RenderJSON(result.Report, filepath.Join(outputDir, slug+".json")); err != nil {
			failed++
			fmt.Fprintf(out, "%s %s: failed to write JSON: %v\n", fail("✗"), result.ArticleID, err)
			continue
		}
		if writeHTML {
			if err := renderer.RenderHTML(result.Report, filepath.Join(outputDir, slug+".html")); err != nil {
				failed++
				fmt.Fprintf(out, "%s %s: failed to write HTML: %v\n", fail("✗"), result.ArticleID, err)
				continue
			}
		}

		succeeded++
		if result.Cached {
			cached++
		}
		fmt.Fprintf(out, "%s %s (%s, %d rows)\n", ok("✓"), result.ArticleID, result.Report.Mode, len(result.Report.Rows))
	}

	logger.Info("batch complete",
		zap.String("input", input),
		zap.Int("total", len(results)),
		zap.Int("succeeded", succeeded),
		zap.Int("failed", failed),
		zap.Int("cached", cached),
		zap.Duration("elapsed", time.Since(started)))

	fmt.Fprintln(out)
	fmt.Fprintf(out, "  Total:     %d articles\n", len(results))
	fmt.Fprintf(out, "  Success:   %d (%d cached)\n", succeeded, cached)
	fmt.Fprintf(out, "  Failures:  %d\n", failed)
	fmt.Fprintf(out, "  Output:    %s\n\n", outputDir)

	return nil
}

var filenameReplacer = strings.NewReplacer(
	"/", "_",
	"\\", "_",
	":", "_",
	"*", "_",
	"?", "_",
	"\"", "_",
	"<", "_",
	">", "_",
	"|", "_",
	" ", "-",
)

// sanitizeFilename turns an article id into a safe file name
func sanitizeFilename(s string) string {
	s = filenameReplacer.Replace(strings.TrimSpace(s))
	s = strings.Trim(s, ".")
	if s == "" {
		s = "article"
	}

	// Limit length
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}
