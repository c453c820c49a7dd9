package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/pexnet/sift-highlight/internal/cache"
	"github.com/pexnet/sift-highlight/internal/model"
)

// Pipeline renders articles through the engine, memoizing reports when caching is enabled
type Pipeline struct {
	engine   *Engine
	renderer *Renderer
	cache    cache.Cache // nil when caching is disabled
	options  RenderOptions
	config   *model.Config
	logger   *zap.Logger
}

// NewPipeline creates a new pipeline with the given configuration
func NewPipeline(cfg *model.Config, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}

	var c cache.Cache
	if cfg.Cache.Enabled {
		c = cache.NewLayeredCache(cfg.Cache.MemoryTTL, cfg.Cache.DiskDir, cfg.Cache.DiskTTL, logger)
	}

	return &Pipeline{
		engine:   NewEngine(cfg.Highlight.MarkClass, logger),
		renderer: NewRenderer(cfg.Output.Color),
		cache:    c,
		options:  OptionsFromConfig(cfg.Highlight),
		config:   cfg,
		logger:   logger,
	}
}

// RenderResult contains the rendered report of one article
type RenderResult struct {
	Report *model.Report
	Cached bool
}

// Options returns the render options applied to every article
func (p *Pipeline) Options() RenderOptions {
	return p.options
}

// RenderArticle renders a single article
func (p *Pipeline) RenderArticle(ctx context.Context, article *model.Article) (*RenderResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key := p.cacheKey(article)
	if report, ok := p.lookup(key); ok {
		p.logger.Debug("report served from cache", zap.String("article_id", article.ID))
		return &RenderResult{Report: report, Cached: true}, nil
	}

	report := p.engine.Render(article, p.options)
	p.store(key, report)

	p.logger.Debug("article rendered",
		zap.String("article_id", article.ID),
		zap.String("mode", string(report.Mode)),
		zap.Int("ranges", len(report.Ranges)),
		zap.Int("applied", len(report.AppliedMarkerIDs)),
		zap.Int("rows", len(report.Rows)))

	return &RenderResult{Report: report}, nil
}

// cacheKey hashes the article together with the options that shape its report.
// An empty key bypasses the cache.
func (p *Pipeline) cacheKey(article *model.Article) string {
	if p.cache == nil {
		return ""
	}
	request := struct {
		Article   *model.Article `json:"article"`
		Options   RenderOptions  `json:"options"`
		MarkClass string         `json:"mark_class"`
	}{article, p.options, p.config.Highlight.MarkClass}

	raw, err := json.Marshal(request)
	if err != nil {
		p.logger.Warn("article not cacheable", zap.String("article_id", article.ID), zap.Error(err))
		return ""
	}
	return cache.CacheKey(raw)
}

func (p *Pipeline) lookup(key string) (*model.Report, bool) {
	if p.cache == nil || key == "" {
		return nil, false
	}
	raw, ok := p.cache.Get(key)
	if !ok {
		return nil, false
	}
	var report model.Report
	if err := json.Unmarshal(raw, &report); err != nil {
		p.logger.Warn("discarding unreadable cache entry", zap.String("key", key), zap.Error(err))
		_ = p.cache.Delete(key)
		return nil, false
	}
	return &report, true
}

func (p *Pipeline) store(key string, report *model.Report) {
	if p.cache == nil || key == "" {
		return
	}
	raw, err := json.Marshal(report)
	if err != nil {
		p.logger.Warn("encode report for cache", zap.Error(err))
		return
	}
	if err := p.cache.Set(key, raw, 0); err != nil {
		p.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// RenderReport writes the report to the requested outputs and prints a summary to w
func (p *Pipeline) RenderReport(w io.Writer, report *model.Report, jsonPath string, htmlPath string) error {
	if jsonPath != "" {
		if err := p.renderer.RenderJSON(report, jsonPath); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		p.logger.Info("wrote JSON report", zap.String("path", jsonPath))
	}

	if htmlPath != "" {
		if err := p.renderer.RenderHTML(report, htmlPath); err != nil {
			return fmt.Errorf("render HTML: %w", err)
		}
		p.logger.Info("wrote HTML preview", zap.String("path", htmlPath))
	}

	p.renderer.RenderSummary(w, report)
	return nil
}

// Renderer returns the report writer used by the pipeline
func (p *Pipeline) Renderer() *Renderer {
	return p.renderer
}
