package pipeline

import (
	"html"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/pexnet/sift-highlight/internal/extract"
	"github.com/pexnet/sift-highlight/internal/highlight"
	"github.com/pexnet/sift-highlight/internal/model"
	"github.com/pexnet/sift-highlight/internal/summary"
)

// RenderOptions are the per-render switches owned by the caller
type RenderOptions struct {
	ShowHighlights bool `json:"show_highlights"`
	TermFallback   bool `json:"term_fallback"`
	MaxTerms       int  `json:"max_terms"` // 0 uses summary.DefaultMaxTerms, negative hides matched terms
}

// OptionsFromConfig derives render options from configuration
func OptionsFromConfig(cfg model.HighlightConfig) RenderOptions {
	return RenderOptions{
		ShowHighlights: cfg.ShowHighlights,
		TermFallback:   cfg.TermFallback,
		MaxTerms:       cfg.MaxTerms,
	}
}

// Engine turns an article and its stream evidence into a highlighted report.
// It holds no per-render state and is safe for concurrent use.
type Engine struct {
	highlighter *highlight.Highlighter
	logger      *zap.Logger
}

// NewEngine creates an engine whose marks use markClass
func NewEngine(markClass string, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		highlighter: highlight.NewHighlighter(markClass),
		logger:      logger,
	}
}

// Render builds the report for one article. It never fails: malformed
// evidence degrades to fewer highlights and explanations.
func (e *Engine) Render(article *model.Article, opts RenderOptions) *model.Report {
	sources := extract.NormalizeSources(article.Sources())
	contentTerms, titleTerms := summary.HighlightTerms(sources)

	report := &model.Report{
		ArticleID:   article.ID,
		Title:       article.Title,
		TitleHTML:   html.EscapeString(article.Title),
		ContentHTML: article.ContentHTML,
		Mode:        model.ModeDisabled,
	}

	applied := map[string]struct{}{}
	if opts.ShowHighlights {
		report.Ranges = highlight.PlanRanges(sources, e.contentLength(article))
		applied = e.highlightContent(article, report, opts, contentTerms)
		report.TitleHTML = e.highlighter.HighlightTitle(article.Title, titleTerms)
	}

	maxTerms := opts.MaxTerms
	if maxTerms == 0 {
		maxTerms = summary.DefaultMaxTerms
	}
	report.MatchedTerms = summary.MatchedTerms(sources, maxTerms)
	report.ReasonSummary = summary.ReasonSummary(sources)
	report.EvidenceSummaries = summary.EvidenceSummaries(sources)
	report.EvidenceSummary = summary.EvidenceSummary(sources)
	report.Rows = summary.Rows(sources, applied)

	return report
}

// highlightContent projects the planned ranges, falling back to term
// highlighting when no marker could be realized
func (e *Engine) highlightContent(article *model.Article, report *model.Report, opts RenderOptions, terms []string) map[string]struct{} {
	result := e.highlighter.ProjectOffsets(article.ContentHTML, report.Ranges)
	if len(result.Applied) > 0 {
		report.ContentHTML = result.HTML
		report.AppliedMarkerIDs = result.AppliedIDs()
		report.Mode = model.ModeOffsets
		return result.Applied
	}

	report.Mode = model.ModeNone
	if !opts.TermFallback || len(terms) == 0 {
		return result.Applied
	}

	if len(report.Ranges) > 0 {
		e.logger.Debug("offset projection realized no markers, using term fallback",
			zap.String("article_id", article.ID),
			zap.Int("ranges", len(report.Ranges)),
			zap.Int("terms", len(terms)))
	}

	out := e.highlighter.HighlightTerms(article.ContentHTML, terms)
	if out != article.ContentHTML {
		report.ContentHTML = out
		report.Mode = model.ModeTerms
	}
	return result.Applied
}

// contentLength is the rune length of the plain-text content, or of the
// HTML's text when no plain text was supplied
func (e *Engine) contentLength(article *model.Article) int {
	if article.ContentText != "" {
		return utf8.RuneCountInString(article.ContentText)
	}
	return utf8.RuneCountInString(highlight.TextContent(article.ContentHTML))
}
