// Package matcher compiles the dictionary into Aho-Corasick automatons:
// one over all brand names and one per brand over its article codes.
package matcher

import (
	ahocorasick "github.com/petar-dambovaliev/aho-corasick"

	"github.com/Stepan2222000/connect-article-avito/shared/domain"
)

// newAutomaton compiles patterns with overlapping-match iteration enabled.
// StandardMatch is required by the library for IterOverlapping.
func newAutomaton(patterns []string) ahocorasick.AhoCorasick {
	builder := ahocorasick.NewAhoCorasickBuilder(ahocorasick.Opts{
		AsciiCaseInsensitive: false, // input is already uppercased by the normalizer
		MatchOnlyWholeWords:  false,
		MatchKind:            ahocorasick.StandardMatch,
		DFA:                  false,
	})
	return builder.Build(patterns)
}

// BrandMatcher finds occurrences of canonical brand names. The pattern is
// the value: a match at offset i reports the brand string itself.
type BrandMatcher struct {
	ac     ahocorasick.AhoCorasick
	brands []domain.Brand // index-aligned with the compiled patterns
}

// Scan reports every brand occurrence as brand -> start offsets.
// Overlapping occurrences are all reported.
func (m *BrandMatcher) Scan(text string) map[domain.Brand][]int {
	if m == nil || len(m.brands) == 0 || text == "" {
		return nil
	}

	positions := make(map[domain.Brand][]int)
	iter := m.ac.IterOverlapping(text)
	for {
		match := iter.Next()
		if match == nil {
			break
		}
		brand := m.brands[match.Pattern()]
		positions[brand] = append(positions[brand], match.Start())
	}
	return positions
}

// Size returns the number of compiled brand patterns.
func (m *BrandMatcher) Size() int {
	if m == nil {
		return 0
	}
	return len(m.brands)
}

// ArticleMatch is one article occurrence: the start offset in the text and
// the (code, brand) pair the dictionary declared for the pattern.
type ArticleMatch struct {
	Start int
	Code  domain.ArticleCode
	Brand domain.Brand
}

// ArticleMatcher finds occurrences of one brand's article codes.
type ArticleMatcher struct {
	ac    ahocorasick.AhoCorasick
	codes []domain.ArticleCode // index-aligned with the compiled patterns
	brand domain.Brand
}

// Scan reports every article occurrence with its start offset.
func (m *ArticleMatcher) Scan(text string) []ArticleMatch {
	if m == nil || len(m.codes) == 0 || text == "" {
		return nil
	}

	var matches []ArticleMatch
	iter := m.ac.IterOverlapping(text)
	for {
		match := iter.Next()
		if match == nil {
			break
		}
		matches = append(matches, ArticleMatch{
			Start: match.Start(),
			Code:  m.codes[match.Pattern()],
			Brand: m.brand,
		})
	}
	return matches
}

// Brand returns the brand this matcher was compiled for.
func (m *ArticleMatcher) Brand() domain.Brand {
	return m.brand
}

// Size returns the number of compiled article patterns.
func (m *ArticleMatcher) Size() int {
	if m == nil {
		return 0
	}
	return len(m.codes)
}
