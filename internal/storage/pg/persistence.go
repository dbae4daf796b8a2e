package pg

import (
	"context"
	"fmt"
	"strings"

	"github.com/Stepan2222000/connect-article-avito/shared/domain"
	"github.com/Stepan2222000/connect-article-avito/shared/logger"
)

const resultColumns = 6

// upsert keyed on ad_id keeps reprocessing idempotent. Empty article and
// brand strings become NULL so "nothing found" reads naturally in SQL.
const upsertSuffix = `
	ON CONFLICT (ad_id) DO UPDATE SET
		text_clean = EXCLUDED.text_clean,
		first_article = EXCLUDED.first_article,
		brand_near_first_article = EXCLUDED.brand_near_first_article,
		all_articles = EXCLUDED.all_articles,
		all_brands = EXCLUDED.all_brands,
		updated_at = now()`

// SaveResults upserts results in one multi-row statement. If the statement
// fails, rows are retried one at a time so a single bad row doesn't sink
// the whole batch.
func (s *Storage) SaveResults(ctx context.Context, results []domain.ExtractionResult) (saved, failed int, err error) {
	if len(results) == 0 {
		return 0, 0, nil
	}

	if err := s.saveBatch(ctx, results); err == nil {
		resultsSavedTotal.Add(float64(len(results)))
		return len(results), 0, nil
	} else {
		logger.Log.Warn("batch save failed, retrying row by row",
			"component", "persistence",
			"batch_size", len(results),
			"error", err)
	}

	for i := range results {
		if err := s.saveBatch(ctx, results[i:i+1]); err != nil {
			failed++
			logger.Log.Error("failed to save result",
				"component", "persistence",
				"ad_id", results[i].AdID,
				"error", err)
			continue
		}
		saved++
	}
	resultsSavedTotal.Add(float64(saved))
	resultsFailedTotal.Add(float64(failed))
	return saved, failed, nil
}

func (s *Storage) saveBatch(ctx context.Context, results []domain.ExtractionResult) error {
	placeholders := make([]string, 0, len(results))
	args := make([]interface{}, 0, len(results)*resultColumns)
	for i, r := range results {
		base := i * resultColumns
		placeholders = append(placeholders, fmt.Sprintf(
			"($%d, $%d, NULLIF($%d, ''), NULLIF($%d, ''), $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6))
		args = append(args,
			r.AdID, r.TextClean, r.FirstArticle, r.BrandNearFirstArticle,
			r.AllArticles, r.AllBrands)
	}

	query := `
		INSERT INTO public.avito_parts_resolved
			(ad_id, text_clean, first_article, brand_near_first_article, all_articles, all_brands)
		VALUES ` + strings.Join(placeholders, ", ") + upsertSuffix

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upserting %d results: %w", len(results), err)
	}
	return nil
}
