// Package dictionary builds the in-memory brand -> article codes mapping
// from the CSV dictionary source.
package dictionary

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/Stepan2222000/connect-article-avito/internal/brand"
	"github.com/Stepan2222000/connect-article-avito/shared/domain"
	apperrors "github.com/Stepan2222000/connect-article-avito/shared/errors"
	"github.com/Stepan2222000/connect-article-avito/shared/logger"
)

// Dictionary maps a canonical brand to the set of its article codes.
// Built once per run, immutable afterwards. A code may legitimately appear
// under several brands; no cross-brand dedup happens here.
type Dictionary map[domain.Brand]map[domain.ArticleCode]struct{}

// Brands returns the key set.
func (d Dictionary) Brands() []domain.Brand {
	brands := make([]domain.Brand, 0, len(d))
	for b := range d {
		brands = append(brands, b)
	}
	return brands
}

// Articles returns the total article count across all brands.
func (d Dictionary) Articles() int {
	n := 0
	for _, codes := range d {
		n += len(codes)
	}
	return n
}

// Stats counts what the loader saw. Rejections are not errors.
type Stats struct {
	TotalLines    int
	ValidArticles int
	SkippedEmpty  int
	SkippedShort  int
}

// Loader streams the dictionary CSV (id,article,brand per line, header
// skipped), canonicalizes brands through the synonym mapper and applies the
// minimum-length policy to article codes.
type Loader struct {
	path      string
	mapper    *brand.Mapper
	minDigits int // pure-digit codes
	minAlnum  int // codes containing at least one letter

	stats Stats
}

func NewLoader(path string, mapper *brand.Mapper, minDigits, minAlnum int) *Loader {
	return &Loader{
		path:      path,
		mapper:    mapper,
		minDigits: minDigits,
		minAlnum:  minAlnum,
	}
}

// Load reads the whole CSV and returns the brand -> codes mapping.
func (l *Loader) Load() (Dictionary, error) {
	start := time.Now()
	logger.Log.Info("loading article dictionary", "component", "dictionary", "path", l.path)

	file, err := os.Open(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrConfigNotFound, l.path)
		}
		return nil, fmt.Errorf("opening dictionary %s: %w", l.path, err)
	}
	defer file.Close()

	dict := make(Dictionary)
	l.stats = Stats{}

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	header := true
	for scanner.Scan() {
		if header {
			header = false
			continue
		}
		l.stats.TotalLines++
		l.processLine(scanner.Text(), dict)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading dictionary %s: %w", l.path, err)
	}

	logger.Log.Info("dictionary loaded",
		"component", "dictionary",
		"lines", l.stats.TotalLines,
		"valid", l.stats.ValidArticles,
		"brands", len(dict),
		"skipped_empty", l.stats.SkippedEmpty,
		"skipped_short", l.stats.SkippedShort,
		"elapsed", time.Since(start))
	return dict, nil
}

// processLine parses one "id,article,brand" line. Short lines are ignored.
func (l *Loader) processLine(line string, dict Dictionary) {
	parts := strings.Split(strings.TrimSpace(line), ",")
	if len(parts) < 3 {
		return
	}

	article := strings.TrimSpace(parts[1])
	rawBrand := strings.ToUpper(strings.TrimSpace(parts[2]))
	canonical := l.mapper.Map(rawBrand)

	if !l.validateArticle(article) {
		return
	}

	codes, ok := dict[canonical]
	if !ok {
		codes = make(map[domain.ArticleCode]struct{})
		dict[canonical] = codes
	}
	codes[article] = struct{}{}
	l.stats.ValidArticles++
}

// validateArticle applies the minimum-length policy: codes with at least one
// letter need minAlnum characters, pure-digit codes need minDigits.
func (l *Loader) validateArticle(article string) bool {
	if article == "" {
		l.stats.SkippedEmpty++
		return false
	}

	hasLetters := false
	for _, r := range article {
		if unicode.IsLetter(r) {
			hasLetters = true
			break
		}
	}

	minLen := l.minDigits
	if hasLetters {
		minLen = l.minAlnum
	}
	// Length in characters, not bytes: Cyrillic codes are two bytes per rune.
	if utf8.RuneCountInString(article) < minLen {
		l.stats.SkippedShort++
		return false
	}
	return true
}

// Stats returns the counters from the last Load call.
func (l *Loader) Stats() Stats {
	return l.stats
}
