package matcher

import (
	"time"

	"github.com/Stepan2222000/connect-article-avito/internal/dictionary"
	"github.com/Stepan2222000/connect-article-avito/shared/domain"
	"github.com/Stepan2222000/connect-article-avito/shared/logger"
)

// BuildStats accumulates over the build phase of one run.
type BuildStats struct {
	BrandPatterns   int
	ArticlePatterns int
	BuildTime       time.Duration
}

// Builder compiles matchers from the loaded dictionary. Automatons are
// always rebuilt from the dictionary; they are never persisted or updated
// incrementally.
type Builder struct {
	stats BuildStats
}

func NewBuilder() *Builder {
	return &Builder{}
}

// BuildBrands compiles the stage-1 matcher over all canonical brand names.
// Empty brand strings are skipped; an empty set compiles to a matcher that
// matches nothing.
func (b *Builder) BuildBrands(brands []domain.Brand) *BrandMatcher {
	start := time.Now()

	patterns := make([]string, 0, len(brands))
	for _, brand := range brands {
		if brand == "" {
			continue
		}
		patterns = append(patterns, brand)
	}

	m := &BrandMatcher{brands: patterns}
	if len(patterns) > 0 {
		m.ac = newAutomaton(patterns)
	}

	b.stats.BrandPatterns = len(patterns)
	logger.Log.Info("brand matcher built",
		"component", "matcher",
		"patterns", len(patterns),
		"elapsed", time.Since(start))
	return m
}

// BuildArticles compiles the stage-2 matcher for one brand. Codes are
// deduplicated within the brand; the same code under another brand compiles
// into that brand's own matcher independently.
func (b *Builder) BuildArticles(brand domain.Brand, codes map[domain.ArticleCode]struct{}) *ArticleMatcher {
	// The set input already dedups within the brand.
	patterns := make([]string, 0, len(codes))
	for code := range codes {
		if code == "" {
			continue
		}
		patterns = append(patterns, code)
	}

	m := &ArticleMatcher{codes: patterns, brand: brand}
	if len(patterns) > 0 {
		m.ac = newAutomaton(patterns)
	}

	b.stats.ArticlePatterns += len(patterns)
	return m
}

// BuildAll compiles article matchers for every brand with a non-empty code
// set. Brands without codes get no matcher and are unsearchable at stage 2.
func (b *Builder) BuildAll(dict dictionary.Dictionary) map[domain.Brand]*ArticleMatcher {
	start := time.Now()

	matchers := make(map[domain.Brand]*ArticleMatcher, len(dict))
	for brand, codes := range dict {
		if len(codes) == 0 {
			continue
		}
		matchers[brand] = b.BuildArticles(brand, codes)
	}

	b.stats.BuildTime = time.Since(start)
	logger.Log.Info("article matchers built",
		"component", "matcher",
		"brands", len(matchers),
		"patterns", b.stats.ArticlePatterns,
		"elapsed", b.stats.BuildTime)
	return matchers
}

// Stats returns the counters accumulated since the Builder was created.
func (b *Builder) Stats() BuildStats {
	return b.stats
}
