package pg

import (
	"context"
	"fmt"

	"github.com/Stepan2222000/connect-article-avito/shared/domain"
	"github.com/Stepan2222000/connect-article-avito/shared/logger"
)

// unprocessedFilter restricts retrieval to ads without a persisted result.
const unprocessedFilter = ` AND NOT EXISTS (
		SELECT 1 FROM public.avito_parts_resolved r WHERE r.ad_id = s.id)`

// CountAds returns how many advertisements match the retrieval filter.
func (s *Storage) CountAds(ctx context.Context, onlyUnprocessed bool) (int64, error) {
	query := `
		SELECT COUNT(*)
		FROM public.special_model_data s
		JOIN public.text_model_data t ON s.id = t.id
		WHERE 1=1`
	if onlyUnprocessed {
		query += unprocessedFilter
	}

	var count int64
	if err := s.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting advertisements: %w", err)
	}
	return count, nil
}

// FetchBatches streams advertisements in id order using keyset pagination
// and hands each batch to fn. limit of 0 means no limit. Iteration stops on
// the first fn error or when ctx is canceled.
func (s *Storage) FetchBatches(
	ctx context.Context,
	batchSize int,
	limit int64,
	onlyUnprocessed bool,
	fn func(ads []domain.Advertisement) error,
) error {
	query := `
		SELECT s.id,
		       COALESCE(s.title, ''),
		       COALESCE(t.description, ''),
		       COALESCE(t.characteristic, ''),
		       CONCAT(
		           COALESCE(s.title, ''), ' ',
		           COALESCE(t.description, ''), ' ',
		           COALESCE(t.characteristic, '')
		       ) AS text_raw
		FROM public.special_model_data s
		JOIN public.text_model_data t ON s.id = t.id
		WHERE s.id > $1`
	if onlyUnprocessed {
		query += unprocessedFilter
	}
	query += `
		ORDER BY s.id
		LIMIT $2`

	var lastID domain.AdID
	var fetched int64
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		pageSize := int64(batchSize)
		if limit > 0 && limit-fetched < pageSize {
			pageSize = limit - fetched
		}
		if pageSize <= 0 {
			return nil
		}

		batch, err := s.fetchPage(ctx, query, lastID, pageSize)
		if err != nil {
			return err
		}
		if len(batch) == 0 {
			return nil
		}

		lastID = batch[len(batch)-1].ID
		fetched += int64(len(batch))

		if err := fn(batch); err != nil {
			return err
		}

		logger.Log.Debug("batch fetched",
			"component", "retrieval",
			"size", len(batch),
			"fetched", fetched,
			"last_id", lastID)
	}
}

func (s *Storage) fetchPage(ctx context.Context, query string, afterID domain.AdID, pageSize int64) ([]domain.Advertisement, error) {
	rows, err := s.db.QueryContext(ctx, query, afterID, pageSize)
	if err != nil {
		return nil, fmt.Errorf("fetching advertisement page: %w", err)
	}
	defer rows.Close()

	batch := make([]domain.Advertisement, 0, pageSize)
	for rows.Next() {
		var ad domain.Advertisement
		if err := rows.Scan(&ad.ID, &ad.Title, &ad.Description, &ad.Characteristic, &ad.TextRaw); err != nil {
			return nil, fmt.Errorf("scanning advertisement row: %w", err)
		}
		batch = append(batch, ad)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating advertisement rows: %w", err)
	}
	return batch, nil
}
