// Package search implements the two-stage cascade: find brand names first,
// then search article codes only for the brands actually present.
package search

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Stepan2222000/connect-article-avito/internal/matcher"
	"github.com/Stepan2222000/connect-article-avito/shared/domain"
	"github.com/Stepan2222000/connect-article-avito/shared/logger"
)

// Totals are engine-wide running counters for operator monitoring.
// They are approximate under concurrent searches by design.
type Totals struct {
	Searches      int64         `json:"searches"`
	BrandsFound   int64         `json:"brands_found"`
	ArticlesFound int64         `json:"articles_found"`
	TotalDuration time.Duration `json:"total_duration"`
}

// Engine runs cascade searches against one published set of matchers.
// Matchers are read-only after SetMatchers, so Search is safe to call from
// many goroutines sharing the engine.
type Engine struct {
	mu       sync.RWMutex
	brands   *matcher.BrandMatcher
	articles map[domain.Brand]*matcher.ArticleMatcher

	searches      atomic.Int64
	brandsTotal   atomic.Int64
	articlesTotal atomic.Int64
	durationNanos atomic.Int64
}

func NewEngine() *Engine {
	return &Engine{}
}

// SetMatchers publishes the compiled matchers. Must complete before
// concurrent Search calls begin; there is no hot swap mid-search guarantee.
func (e *Engine) SetMatchers(brands *matcher.BrandMatcher, articles map[domain.Brand]*matcher.ArticleMatcher) {
	e.mu.Lock()
	e.brands = brands
	e.articles = articles
	e.mu.Unlock()

	logger.Log.Info("matchers published",
		"component", "cascade",
		"brands", brands.Size(),
		"article_matchers", len(articles))
}

// Search runs both cascade stages over normalized text and returns a fresh
// SearchResult. A missing brand matcher degrades to an empty result rather
// than failing; per-matcher panics are logged and contribute no matches.
func (e *Engine) Search(text string) domain.SearchResult {
	start := time.Now()
	result := domain.SearchResult{}

	e.mu.RLock()
	brands := e.brands
	articles := e.articles
	e.mu.RUnlock()

	if brands == nil {
		logger.Log.Warn("search called before matchers were published", "component", "cascade")
		return result
	}

	// Stage 1: one pass over the text collecting every brand occurrence.
	positions := e.scanBrands(brands, text)

	found := make([]domain.Brand, 0, len(positions))
	for brand := range positions {
		found = append(found, brand)
	}
	sort.Strings(found)

	result.AllBrands = found
	result.Stats.BrandsFound = len(found)

	if len(found) == 0 {
		// No brands means no stage 2: this bound is the point of the cascade.
		result.Stats.Duration = time.Since(start)
		e.record(result)
		return result
	}

	// Stage 2: article scan restricted to brands seen at stage 1.
	// Brands without a compiled article matcher are skipped.
	var matches []matcher.ArticleMatch
	for _, brand := range found {
		am, ok := articles[brand]
		if !ok {
			continue
		}
		matches = append(matches, e.scanArticles(am, text)...)
	}

	// Earliest start position wins; code order breaks exact-offset ties so
	// output is deterministic.
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Start != matches[j].Start {
			return matches[i].Start < matches[j].Start
		}
		return matches[i].Code < matches[j].Code
	})

	if len(matches) > 0 {
		// The brand comes from the dictionary pairing, not from whichever
		// brand token sits closest in the text.
		result.FirstArticle = matches[0].Code
		result.BrandNearFirstArticle = matches[0].Brand
		result.AllArticles = make([]domain.ArticleCode, len(matches))
		for i, m := range matches {
			result.AllArticles[i] = m.Code
		}
		result.Stats.ArticlesFound = len(matches)
	}

	result.Stats.Duration = time.Since(start)
	e.record(result)
	return result
}

// scanBrands wraps the stage-1 scan so a matcher failure degrades to "no
// further matches" instead of aborting the call.
func (e *Engine) scanBrands(m *matcher.BrandMatcher, text string) (positions map[domain.Brand][]int) {
	defer func() {
		if r := recover(); r != nil {
			logger.Log.Error("brand scan failed", "component", "cascade", "panic", r)
		}
	}()
	return m.Scan(text)
}

// scanArticles wraps one brand's stage-2 scan; a failing matcher must not
// suppress results from the other brands in the same call.
func (e *Engine) scanArticles(m *matcher.ArticleMatcher, text string) (matches []matcher.ArticleMatch) {
	defer func() {
		if r := recover(); r != nil {
			logger.Log.Error("article scan failed",
				"component", "cascade", "brand", m.Brand(), "panic", r)
		}
	}()
	return m.Scan(text)
}

func (e *Engine) record(result domain.SearchResult) {
	e.searches.Add(1)
	e.brandsTotal.Add(int64(result.Stats.BrandsFound))
	e.articlesTotal.Add(int64(result.Stats.ArticlesFound))
	e.durationNanos.Add(int64(result.Stats.Duration))

	searchesTotal.Inc()
	brandsFoundTotal.Add(float64(result.Stats.BrandsFound))
	articlesFoundTotal.Add(float64(result.Stats.ArticlesFound))
	searchDuration.Observe(result.Stats.Duration.Seconds())
}

// Totals returns the running counters accumulated across all searches.
func (e *Engine) Totals() Totals {
	return Totals{
		Searches:      e.searches.Load(),
		BrandsFound:   e.brandsTotal.Load(),
		ArticlesFound: e.articlesTotal.Load(),
		TotalDuration: time.Duration(e.durationNanos.Load()),
	}
}
