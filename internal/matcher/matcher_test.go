package matcher

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Stepan2222000/connect-article-avito/internal/dictionary"
	"github.com/Stepan2222000/connect-article-avito/shared/domain"
)

func codeSet(codes ...string) map[domain.ArticleCode]struct{} {
	set := make(map[domain.ArticleCode]struct{}, len(codes))
	for _, c := range codes {
		set[c] = struct{}{}
	}
	return set
}

func TestBrandMatcherScan(t *testing.T) {
	b := NewBuilder()
	m := b.BuildBrands([]domain.Brand{"YAMAHA", "HONDA", "SUZUKI"})
	require.Equal(t, 3, m.Size())

	positions := m.Scan("PRODAU FILTR YAMAHA ARTIKUL YA123 HONDA")

	require.Contains(t, positions, "YAMAHA")
	require.Contains(t, positions, "HONDA")
	assert.NotContains(t, positions, "SUZUKI")
	assert.Equal(t, []int{13}, positions["YAMAHA"])
	assert.Equal(t, []int{34}, positions["HONDA"])
}

func TestBrandMatcherRepeatedOccurrences(t *testing.T) {
	b := NewBuilder()
	m := b.BuildBrands([]domain.Brand{"HONDA"})

	positions := m.Scan("HONDA ZAPCHASTI HONDA")
	assert.Equal(t, []int{0, 16}, positions["HONDA"])
}

func TestBrandMatcherOverlapping(t *testing.T) {
	// One brand name embedded in another: both must be reported.
	b := NewBuilder()
	m := b.BuildBrands([]domain.Brand{"AM", "CANAM"})

	positions := m.Scan("ZAPCHASTI CANAM")
	assert.Equal(t, []int{10}, positions["CANAM"])
	assert.Equal(t, []int{13}, positions["AM"])
}

func TestBrandMatcherEmpty(t *testing.T) {
	b := NewBuilder()
	m := b.BuildBrands(nil)

	assert.Equal(t, 0, m.Size())
	assert.Empty(t, m.Scan("YAMAHA HONDA"))
}

func TestBrandMatcherSkipsEmptyStrings(t *testing.T) {
	b := NewBuilder()
	m := b.BuildBrands([]domain.Brand{"", "YAMAHA"})
	assert.Equal(t, 1, m.Size())
}

func TestArticleMatcherScan(t *testing.T) {
	b := NewBuilder()
	m := b.BuildArticles("YAMAHA", codeSet("YA123", "YB456"))

	matches := m.Scan("ARTIKUL YA123 I ESCHE YB456 I YA123")
	require.Len(t, matches, 3)

	sort.Slice(matches, func(i, j int) bool { return matches[i].Start < matches[j].Start })
	assert.Equal(t, ArticleMatch{Start: 8, Code: "YA123", Brand: "YAMAHA"}, matches[0])
	assert.Equal(t, ArticleMatch{Start: 22, Code: "YB456", Brand: "YAMAHA"}, matches[1])
	assert.Equal(t, ArticleMatch{Start: 30, Code: "YA123", Brand: "YAMAHA"}, matches[2])
}

func TestArticleMatcherCarriesBrand(t *testing.T) {
	b := NewBuilder()
	m := b.BuildArticles("BRP", codeSet("420956123"))

	assert.Equal(t, "BRP", m.Brand())
	matches := m.Scan("NOMER 420956123")
	require.Len(t, matches, 1)
	assert.Equal(t, "BRP", matches[0].Brand)
}

func TestBuildAll(t *testing.T) {
	dict := dictionary.Dictionary{
		"YAMAHA": codeSet("YA123"),
		"HONDA":  codeSet("HO789", "HO790"),
		"EMPTY":  {},
	}

	b := NewBuilder()
	matchers := b.BuildAll(dict)

	require.Len(t, matchers, 2)
	assert.Contains(t, matchers, "YAMAHA")
	assert.Contains(t, matchers, "HONDA")
	// Brands without codes are unsearchable at stage 2.
	assert.NotContains(t, matchers, "EMPTY")

	assert.Equal(t, 3, b.Stats().ArticlePatterns)
}

func TestSameCodeUnderTwoBrands(t *testing.T) {
	b := NewBuilder()
	yamaha := b.BuildArticles("YAMAHA", codeSet("12345"))
	honda := b.BuildArticles("HONDA", codeSet("12345"))

	text := "KOD 12345"
	ym := yamaha.Scan(text)
	hm := honda.Scan(text)
	require.Len(t, ym, 1)
	require.Len(t, hm, 1)
	assert.Equal(t, "YAMAHA", ym[0].Brand)
	assert.Equal(t, "HONDA", hm[0].Brand)
}
