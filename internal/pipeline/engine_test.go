package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pexnet/sift-highlight/internal/model"
	"github.com/pexnet/sift-highlight/internal/summary"
)

func keywordArticle(start, end int) *model.Article {
	return &model.Article{
		ID:          "a1",
		FeedID:      "f1",
		Title:       "Darktrace breach",
		ContentHTML: "<p>Darktrace details.</p>",
		ContentText: "Darktrace details.",
		StreamIDs:   []string{"s1"},
		StreamNames: map[string]string{"s1": "Vendors"},
		StreamReasons: map[string]string{
			"s1": "keyword Darktrace",
		},
		StreamEvidence: map[string]any{
			"s1": map[string]any{
				"matcher_type": "keyword",
				"keyword_hits": []any{
					map[string]any{"value": "darktrace", "field": "content_text", "start": start, "end": end, "snippet": "Darktrace details."},
				},
			},
		},
	}
}

func defaultOptions() RenderOptions {
	return OptionsFromConfig(model.DefaultConfig().Highlight)
}

func TestEngine_OffsetHighlight(t *testing.T) {
	engine := NewEngine(model.DefaultMarkClass, nil)

	report := engine.Render(keywordArticle(0, 9), defaultOptions())

	id := "reader-highlight-s1-keyword-0"
	assert.Equal(t, model.ModeOffsets, report.Mode)
	assert.Equal(t, []model.HighlightRange{{MarkerID: id, Start: 0, End: 9}}, report.Ranges)
	assert.Equal(t, []string{id}, report.AppliedMarkerIDs)
	assert.Equal(t,
		`<p><mark class="workspace-reader__highlight" data-highlight-id="`+id+`" id="`+id+`">Darktrace</mark> details.</p>`,
		report.ContentHTML)

	require.Len(t, report.Rows, 1)
	assert.Equal(t, id, report.Rows[0].MarkerID)
	require.NotNil(t, report.MatchedTerms)
	assert.Equal(t, "darktrace (content)", *report.MatchedTerms)
	assert.Equal(t, "Vendors: keyword Darktrace", report.ReasonSummary)
	assert.Equal(t, `Vendors: keyword "darktrace" in "Darktrace details."`, report.EvidenceSummary)
	assert.Equal(t, "Darktrace breach", report.TitleHTML)
}

func TestEngine_TermFallback(t *testing.T) {
	engine := NewEngine(model.DefaultMarkClass, nil)

	report := engine.Render(keywordArticle(100, 110), defaultOptions())

	assert.Equal(t, model.ModeTerms, report.Mode)
	assert.Empty(t, report.Ranges)
	assert.Empty(t, report.AppliedMarkerIDs)
	assert.Equal(t, `<p><mark class="workspace-reader__highlight">Darktrace</mark> details.</p>`, report.ContentHTML)

	require.Len(t, report.Rows, 1)
	assert.Empty(t, report.Rows[0].MarkerID, "term marks have no jump target")
}

func TestEngine_TermFallbackDisabled(t *testing.T) {
	engine := NewEngine(model.DefaultMarkClass, nil)
	opts := defaultOptions()
	opts.TermFallback = false

	article := keywordArticle(100, 110)
	report := engine.Render(article, opts)

	assert.Equal(t, model.ModeNone, report.Mode)
	assert.Equal(t, article.ContentHTML, report.ContentHTML)
}

func TestEngine_HighlightsDisabled(t *testing.T) {
	engine := NewEngine(model.DefaultMarkClass, nil)
	opts := defaultOptions()
	opts.ShowHighlights = false

	article := keywordArticle(0, 9)
	article.Title = "Darktrace & friends"
	report := engine.Render(article, opts)

	assert.Equal(t, model.ModeDisabled, report.Mode)
	assert.Equal(t, article.ContentHTML, report.ContentHTML)
	assert.Equal(t, "Darktrace &amp; friends", report.TitleHTML)
	assert.Empty(t, report.Ranges)

	// Explanations do not depend on the toggle
	require.Len(t, report.Rows, 1)
	assert.Empty(t, report.Rows[0].MarkerID)
	assert.NotNil(t, report.MatchedTerms)
	assert.NotEmpty(t, report.EvidenceSummary)
}

func TestEngine_TitleTerms(t *testing.T) {
	engine := NewEngine("hl", nil)
	article := &model.Article{
		ID:          "a2",
		Title:       "Darktrace breach",
		ContentHTML: "<p>Nothing here.</p>",
		StreamNames: map[string]string{"s1": "Vendors"},
		StreamEvidence: map[string]any{
			"s1": map[string]any{
				"query_hits": []any{map[string]any{"token": "breach", "field": "title"}},
			},
		},
	}

	report := engine.Render(article, defaultOptions())

	assert.Equal(t, `Darktrace <mark class="hl">breach</mark>`, report.TitleHTML)
	assert.Equal(t, model.ModeNone, report.Mode)
	require.NotNil(t, report.MatchedTerms)
	assert.Equal(t, "breach (title)", *report.MatchedTerms)
}

func TestEngine_ContentLengthFromHTML(t *testing.T) {
	engine := NewEngine(model.DefaultMarkClass, nil)
	article := keywordArticle(0, 9)
	article.ContentText = ""

	report := engine.Render(article, defaultOptions())

	assert.Equal(t, model.ModeOffsets, report.Mode)
}

func TestEngine_NoEvidence(t *testing.T) {
	engine := NewEngine(model.DefaultMarkClass, nil)
	article := &model.Article{ID: "a3", Title: "Plain", ContentHTML: "<p>Plain text.</p>"}

	report := engine.Render(article, defaultOptions())

	assert.Equal(t, model.ModeNone, report.Mode)
	assert.Equal(t, article.ContentHTML, report.ContentHTML)
	assert.False(t, report.HasExplanation())
}

func TestEngine_NamelessSource(t *testing.T) {
	engine := NewEngine(model.DefaultMarkClass, nil)
	article := keywordArticle(0, 9)
	article.StreamNames = nil

	report := engine.Render(article, defaultOptions())

	assert.Equal(t, "", report.ReasonSummary)
	assert.Empty(t, report.Rows)
	assert.Nil(t, report.MatchedTerms)
	assert.Equal(t, article.ContentHTML, report.ContentHTML)
}

func TestEngine_MaxTerms(t *testing.T) {
	engine := NewEngine(model.DefaultMarkClass, nil)
	article := keywordArticle(0, 9)
	article.StreamEvidence["s1"].(map[string]any)["keyword_hits"] = []any{
		map[string]any{"value": "one", "field": "content_text"},
		map[string]any{"value": "two", "field": "content_text"},
		map[string]any{"value": "three", "field": "content_text"},
		map[string]any{"value": "four", "field": "content_text"},
	}

	opts := defaultOptions()
	opts.MaxTerms = 0
	report := engine.Render(article, opts)
	require.NotNil(t, report.MatchedTerms)
	assert.Equal(t, "one (content), two (content), three (content) +1", *report.MatchedTerms)
	assert.Equal(t, 3, summary.DefaultMaxTerms)

	opts.MaxTerms = -1
	assert.Nil(t, engine.Render(article, opts).MatchedTerms)
}

func TestEngine_Deterministic(t *testing.T) {
	engine := NewEngine(model.DefaultMarkClass, nil)

	first := engine.Render(keywordArticle(0, 9), defaultOptions())
	second := engine.Render(keywordArticle(0, 9), defaultOptions())

	assert.Equal(t, first, second)
}
