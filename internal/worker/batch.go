package worker

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/pexnet/sift-highlight/internal/model"
	"github.com/pexnet/sift-highlight/internal/pipeline"
)

// ArticleRenderer renders one article
type ArticleRenderer interface {
	RenderArticle(ctx context.Context, article *model.Article) (*pipeline.RenderResult, error)
}

// RenderJob renders one article, waiting on its feed's rate limit first
type RenderJob struct {
	Article  *model.Article
	Renderer ArticleRenderer
	Limiter  *Limiter
}

// Execute executes the render job
func (j *RenderJob) Execute(ctx context.Context) Result {
	if j.Limiter != nil {
		if err := j.Limiter.Wait(ctx, j.Article.FeedID); err != nil {
			return &RenderResult{ArticleID: j.Article.ID, Error: fmt.Errorf("rate limit: %w", err)}
		}
	}

	result, err := j.Renderer.RenderArticle(ctx, j.Article)
	if err != nil {
		return &RenderResult{ArticleID: j.Article.ID, Error: err}
	}
	return &RenderResult{
		ArticleID: j.Article.ID,
		Report:    result.Report,
		Cached:    result.Cached,
	}
}

// RenderResult is the outcome of a render job
type RenderResult struct {
	ArticleID string
	Report    *model.Report
	Cached    bool
	Error     error
}

// GetError returns the error from the render result
func (r *RenderResult) GetError() error {
	return r.Error
}

// BatchProcessor renders many articles concurrently
type BatchProcessor struct {
	renderer    ArticleRenderer
	concurrency int
	limiter     *Limiter
	logger      *zap.Logger
}

// NewBatchProcessor creates a batch processor. articlesPerSecond limits each feed; 0 disables it.
func NewBatchProcessor(renderer ArticleRenderer, concurrency int, articlesPerSecond float64, burst int, logger *zap.Logger) *BatchProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BatchProcessor{
		renderer:    renderer,
		concurrency: concurrency,
		limiter:     NewLimiter(articlesPerSecond, burst),
		logger:      logger,
	}
}

// ProcessArticles renders articles concurrently; results keep input order
func (b *BatchProcessor) ProcessArticles(ctx context.Context, articles []*model.Article) []*RenderResult {
	if len(articles) == 0 {
		return []*RenderResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	for _, article := range articles {
		if !pool.Submit(&RenderJob{Article: article, Renderer: b.renderer, Limiter: b.limiter}) {
			b.logger.Warn("batch cancelled before all articles were queued", zap.String("article_id", article.ID))
			break
		}
	}

	results := pool.Wait()

	out := make([]*RenderResult, len(results))
	for i, result := range results {
		out[i] = result.(*RenderResult)
	}
	return out
}

// ProcessPath loads articles from path and renders them
func (b *BatchProcessor) ProcessPath(ctx context.Context, path string) ([]*RenderResult, error) {
	articles, err := ReadArticles(path)
	if err != nil {
		return nil, fmt.Errorf("read articles: %w", err)
	}
	b.logger.Debug("articles loaded", zap.String("path", path), zap.Int("count", len(articles)))

	return b.ProcessArticles(ctx, articles), nil
}

// ReadArticles loads articles from a directory of .json/.yaml/.yml documents
// (sorted by name), a single such document, or a JSON Lines file.
// Duplicate article ids keep the first.
func ReadArticles(path string) ([]*model.Article, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	var articles []*model.Article
	switch {
	case info.IsDir():
		articles, err = readArticleDir(path)
	case isDocument(path):
		var article *model.Article
		if article, err = ReadArticle(path); err == nil {
			articles = []*model.Article{article}
		}
	default:
		articles, err = readArticleLines(path)
	}
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	unique := articles[:0]
	for _, a := range articles {
		if a.ID != "" && seen[a.ID] {
			continue
		}
		seen[a.ID] = true
		unique = append(unique, a)
	}
	return unique, nil
}

// ReadArticle loads a single JSON or YAML article document
func ReadArticle(path string) (*model.Article, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var article model.Article
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &article)
	default:
		err = json.Unmarshal(data, &article)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}

	if article.ID == "" {
		article.ID = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return &article, nil
}

func readArticleDir(dir string) ([]*model.Article, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && isDocument(e.Name()) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	articles := make([]*model.Article, 0, len(names))
	for _, name := range names {
		article, err := ReadArticle(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		articles = append(articles, article)
	}
	return articles, nil
}

func isDocument(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json", ".yaml", ".yml":
		return true
	}
	return false
}

func readArticleLines(path string) ([]*model.Article, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var articles []*model.Article
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		var article model.Article
		if err := json.Unmarshal([]byte(line), &article); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		if article.ID == "" {
			article.ID = fmt.Sprintf("line-%d", lineNo)
		}
		articles = append(articles, &article)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}
	return articles, nil
}
