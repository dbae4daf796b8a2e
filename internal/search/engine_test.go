package search

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Stepan2222000/connect-article-avito/internal/matcher"
	"github.com/Stepan2222000/connect-article-avito/shared/domain"
)

func codeSet(codes ...string) map[domain.ArticleCode]struct{} {
	set := make(map[domain.ArticleCode]struct{}, len(codes))
	for _, c := range codes {
		set[c] = struct{}{}
	}
	return set
}

// testEngine compiles matchers for the given brand -> codes mapping and
// publishes them into a fresh engine.
func testEngine(t *testing.T, brandCodes map[string][]string) *Engine {
	t.Helper()
	builder := matcher.NewBuilder()

	brands := make([]domain.Brand, 0, len(brandCodes))
	articles := make(map[domain.Brand]*matcher.ArticleMatcher)
	for brand, codes := range brandCodes {
		brands = append(brands, brand)
		if len(codes) > 0 {
			articles[brand] = builder.BuildArticles(brand, codeSet(codes...))
		}
	}

	e := NewEngine()
	e.SetMatchers(builder.BuildBrands(brands), articles)
	return e
}

func TestSearchNoBrandPresent(t *testing.T) {
	e := testEngine(t, map[string][]string{
		"YAMAHA": {"YA123"},
		"HONDA":  {"HO789"},
		"SUZUKI": {"SU555"},
	})

	result := e.Search("PRODAU FILTR MASLYANYI ARTIKUL YA123 NOVYI")

	assert.Empty(t, result.FirstArticle)
	assert.Empty(t, result.BrandNearFirstArticle)
	assert.Empty(t, result.AllBrands)
	assert.Empty(t, result.AllArticles)
	assert.Equal(t, 0, result.Stats.BrandsFound)
	assert.Equal(t, 0, result.Stats.ArticlesFound)
}

func TestSearchBrandAndArticlePresent(t *testing.T) {
	e := testEngine(t, map[string][]string{
		"YAMAHA": {"YA123"},
	})

	result := e.Search("PRODAU FILTR YAMAHA ARTIKUL YA123 ORIGINAL")

	assert.Equal(t, "YA123", result.FirstArticle)
	assert.Equal(t, "YAMAHA", result.BrandNearFirstArticle)
	assert.Equal(t, []domain.Brand{"YAMAHA"}, result.AllBrands)
	assert.Equal(t, []domain.ArticleCode{"YA123"}, result.AllArticles)
	assert.Equal(t, 1, result.Stats.BrandsFound)
	assert.Equal(t, 1, result.Stats.ArticlesFound)
}

func TestSearchTwoBrandsEarliestWins(t *testing.T) {
	e := testEngine(t, map[string][]string{
		"HONDA":  {"HO789"},
		"YAMAHA": {"YA456"},
	})

	result := e.Search("ZAPCHASTI HONDA HO789 I YAMAHA YA456")

	assert.Equal(t, "HO789", result.FirstArticle)
	assert.Equal(t, "HONDA", result.BrandNearFirstArticle)
	assert.ElementsMatch(t, []string{"HONDA", "YAMAHA"}, result.AllBrands)
	assert.Equal(t, []domain.ArticleCode{"HO789", "YA456"}, result.AllArticles)
	assert.Equal(t, 2, result.Stats.BrandsFound)
	assert.Equal(t, 2, result.Stats.ArticlesFound)
}

func TestSearchBrandPresentArticlesAbsent(t *testing.T) {
	e := testEngine(t, map[string][]string{
		"SUZUKI": {"SU999", "SU888"},
	})

	result := e.Search("MOTOCIKL SUZUKI NA PRODAJU")

	assert.Equal(t, []domain.Brand{"SUZUKI"}, result.AllBrands)
	assert.Empty(t, result.FirstArticle)
	assert.Empty(t, result.AllArticles)
	assert.Equal(t, 1, result.Stats.BrandsFound)
	assert.Equal(t, 0, result.Stats.ArticlesFound)
}

func TestSearchBrandWithoutArticleMatcher(t *testing.T) {
	// A brand with no codes has no stage-2 matcher; it still shows up in
	// AllBrands and must not break the search.
	e := testEngine(t, map[string][]string{
		"YAMAHA": {"YA123"},
		"BARREN": {},
	})

	result := e.Search("BARREN I YAMAHA YA123")

	assert.ElementsMatch(t, []string{"BARREN", "YAMAHA"}, result.AllBrands)
	assert.Equal(t, "YA123", result.FirstArticle)
}

func TestSearchBrandFromDictionaryNotProximity(t *testing.T) {
	// HONDA's code sits right next to the YAMAHA token; the reported brand
	// is still the dictionary pairing.
	e := testEngine(t, map[string][]string{
		"HONDA":  {"HO789"},
		"YAMAHA": {"YA456"},
	})

	result := e.Search("YAMAHA HO789 HONDA YA456")

	assert.Equal(t, "HO789", result.FirstArticle)
	assert.Equal(t, "HONDA", result.BrandNearFirstArticle)
}

func TestSearchDuplicateOccurrencesKept(t *testing.T) {
	e := testEngine(t, map[string][]string{
		"YAMAHA": {"YA123"},
	})

	result := e.Search("YAMAHA YA123 POVTOR YA123")

	assert.Equal(t, []domain.ArticleCode{"YA123", "YA123"}, result.AllArticles)
	assert.Equal(t, 2, result.Stats.ArticlesFound)
}

func TestSearchSameStartTieBreaksOnCode(t *testing.T) {
	// Prefix collision: both codes start at the same offset; lexical order
	// of the code decides deterministically.
	e := testEngine(t, map[string][]string{
		"YAMAHA": {"YA123", "YA1234"},
	})

	result := e.Search("YAMAHA YA1234")

	assert.Equal(t, "YA123", result.FirstArticle)
	assert.Equal(t, []domain.ArticleCode{"YA123", "YA1234"}, result.AllArticles)
}

func TestSearchWithoutMatchers(t *testing.T) {
	e := NewEngine()

	result := e.Search("YAMAHA YA123")

	assert.Empty(t, result.FirstArticle)
	assert.Empty(t, result.AllBrands)
	assert.Equal(t, int64(0), e.Totals().Searches)
}

func TestSearchEmptyText(t *testing.T) {
	e := testEngine(t, map[string][]string{"YAMAHA": {"YA123"}})

	result := e.Search("")
	assert.Empty(t, result.AllBrands)
	assert.Equal(t, 0, result.Stats.BrandsFound)
}

func TestTotalsAccumulate(t *testing.T) {
	e := testEngine(t, map[string][]string{
		"YAMAHA": {"YA123"},
		"HONDA":  {"HO789"},
	})

	e.Search("YAMAHA YA123")
	e.Search("HONDA HO789 I YAMAHA")
	e.Search("NICHEGO")

	totals := e.Totals()
	assert.Equal(t, int64(3), totals.Searches)
	assert.Equal(t, int64(3), totals.BrandsFound)
	assert.Equal(t, int64(2), totals.ArticlesFound)
}

func TestSearchConcurrent(t *testing.T) {
	e := testEngine(t, map[string][]string{
		"YAMAHA": {"YA123"},
	})

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				result := e.Search("PRODAU YAMAHA YA123")
				require.Equal(t, "YA123", result.FirstArticle)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1600), e.Totals().Searches)
}
