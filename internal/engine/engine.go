// Package engine wires the pipeline: dictionary load, automaton build,
// batched retrieval, concurrent cascade search and result persistence.
package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Stepan2222000/connect-article-avito/internal/brand"
	"github.com/Stepan2222000/connect-article-avito/internal/dictionary"
	"github.com/Stepan2222000/connect-article-avito/internal/matcher"
	"github.com/Stepan2222000/connect-article-avito/internal/normalizer"
	"github.com/Stepan2222000/connect-article-avito/internal/search"
	"github.com/Stepan2222000/connect-article-avito/shared/config"
	"github.com/Stepan2222000/connect-article-avito/shared/domain"
	"github.com/Stepan2222000/connect-article-avito/shared/logger"
)

// Store is the database surface the engine needs. Implemented by pg.Storage,
// mocked in tests.
type Store interface {
	EnsureResultTable(ctx context.Context) error
	CountAds(ctx context.Context, onlyUnprocessed bool) (int64, error)
	FetchBatches(ctx context.Context, batchSize int, limit int64, onlyUnprocessed bool,
		fn func(ads []domain.Advertisement) error) error
	SaveResults(ctx context.Context, results []domain.ExtractionResult) (saved, failed int, err error)
}

// RunStats summarizes one extraction run.
type RunStats struct {
	RunID          string        `json:"run_id"`
	TotalProcessed int64         `json:"total_processed"`
	AdsWithArticle int64         `json:"ads_with_article"`
	AdsWithBrand   int64         `json:"ads_with_brand"`
	Saved          int64         `json:"saved"`
	SaveErrors     int64         `json:"save_errors"`
	Elapsed        time.Duration `json:"elapsed"`
}

// Engine owns the full run lifecycle. Build (LoadDictionary +
// BuildAutomatons) is single-writer and must complete before
// ProcessAdvertisements starts its workers.
type Engine struct {
	cfg    *config.Config
	store  Store
	norm   *normalizer.Normalizer
	mapper *brand.Mapper
	loader *dictionary.Loader
	search *search.Engine

	runID uuid.UUID
	built bool

	mu    sync.Mutex
	stats RunStats
}

func New(cfg *config.Config, store Store, mapper *brand.Mapper, norm *normalizer.Normalizer, searchEngine *search.Engine) *Engine {
	return &Engine{
		cfg:    cfg,
		store:  store,
		norm:   norm,
		mapper: mapper,
		loader: dictionary.NewLoader(
			cfg.Public.DictionaryPath,
			mapper,
			cfg.Public.MinArticleLenDigits,
			cfg.Public.MinArticleLenAlnum,
		),
		search: searchEngine,
		runID:  uuid.New(),
	}
}

// RunID identifies this engine's run in logs and the stats endpoint.
func (e *Engine) RunID() string {
	return e.runID.String()
}

// Run executes the whole extraction cycle and returns run statistics.
func (e *Engine) Run(ctx context.Context, limit int64) (RunStats, error) {
	start := time.Now()
	logger.Log.Info("extraction run starting", "run_id", e.RunID(), "limit", limit)

	if err := e.store.EnsureResultTable(ctx); err != nil {
		return e.Stats(), err
	}

	dict, err := e.buildAutomatons()
	if err != nil {
		return e.Stats(), err
	}
	logger.Log.Info("build phase complete",
		"run_id", e.RunID(),
		"brands", len(dict),
		"articles", dict.Articles())

	if err := e.processAdvertisements(ctx, limit); err != nil {
		return e.Stats(), err
	}

	e.mu.Lock()
	e.stats.Elapsed = time.Since(start)
	stats := e.stats
	e.mu.Unlock()

	logger.Log.Info("extraction run finished",
		"run_id", e.RunID(),
		"processed", stats.TotalProcessed,
		"ads_with_article", stats.AdsWithArticle,
		"ads_with_brand", stats.AdsWithBrand,
		"saved", stats.Saved,
		"save_errors", stats.SaveErrors,
		"elapsed", stats.Elapsed)
	return stats, nil
}

// buildAutomatons loads the dictionary and publishes fresh matchers.
// Always rebuilt from the dictionary: the automaton is never the source of
// truth and never persisted across runs.
func (e *Engine) buildAutomatons() (dictionary.Dictionary, error) {
	if err := e.mapper.Load(); err != nil {
		return nil, fmt.Errorf("loading brand groups: %w", err)
	}

	dict, err := e.loader.Load()
	if err != nil {
		return nil, fmt.Errorf("loading dictionary: %w", err)
	}

	builder := matcher.NewBuilder()
	brandMatcher := builder.BuildBrands(dict.Brands())
	articleMatchers := builder.BuildAll(dict)

	e.search.SetMatchers(brandMatcher, articleMatchers)
	e.built = true

	dictionaryBrands.Set(float64(len(dict)))
	dictionaryArticles.Set(float64(dict.Articles()))
	return dict, nil
}

// processAdvertisements streams batches from the store and fans each batch
// out to MaxWorkers goroutines. Matchers are read-only at this point, so
// workers share the search engine without locking.
func (e *Engine) processAdvertisements(ctx context.Context, limit int64) error {
	if !e.built {
		return fmt.Errorf("automatons not built")
	}

	total, err := e.store.CountAds(ctx, true)
	if err != nil {
		return err
	}
	if limit > 0 && total > limit {
		total = limit
	}
	if total == 0 {
		logger.Log.Warn("no advertisements to process", "run_id", e.RunID())
		return nil
	}
	logger.Log.Info("processing advertisements", "run_id", e.RunID(), "total", total)

	batchNum := 0
	return e.store.FetchBatches(ctx, e.cfg.Public.BatchSize, limit, true, func(ads []domain.Advertisement) error {
		batchNum++
		results := e.processBatch(ads)

		saved, failed, err := e.store.SaveResults(ctx, results)
		if err != nil {
			return err
		}

		e.mu.Lock()
		e.stats.Saved += int64(saved)
		e.stats.SaveErrors += int64(failed)
		processed := e.stats.TotalProcessed
		e.mu.Unlock()

		if batchNum%10 == 0 {
			logger.Log.Info("progress",
				"run_id", e.RunID(),
				"processed", processed,
				"total", total)
		}
		return nil
	})
}

// processBatch normalizes and searches one batch concurrently, preserving
// the input order in the returned results.
func (e *Engine) processBatch(ads []domain.Advertisement) []domain.ExtractionResult {
	results := make([]domain.ExtractionResult, len(ads))

	workers := e.cfg.Public.MaxWorkers
	if workers > len(ads) {
		workers = len(ads)
	}
	if workers < 1 {
		workers = 1
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = e.processAd(ads[i])
			}
		}()
	}
	for i := range ads {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	adsProcessedTotal.Add(float64(len(results)))

	e.mu.Lock()
	for _, r := range results {
		e.stats.TotalProcessed++
		if r.FirstArticle != "" {
			e.stats.AdsWithArticle++
		}
		if len(r.AllBrands) > 0 {
			e.stats.AdsWithBrand++
		}
	}
	e.mu.Unlock()

	return results
}

func (e *Engine) processAd(ad domain.Advertisement) domain.ExtractionResult {
	textClean := e.norm.ForSearch(ad.TextRaw)
	found := e.search.Search(textClean)

	// Empty arrays, not NULLs, so downstream queries can unnest safely.
	if found.AllArticles == nil {
		found.AllArticles = []domain.ArticleCode{}
	}
	if found.AllBrands == nil {
		found.AllBrands = []domain.Brand{}
	}

	return domain.ExtractionResult{
		AdID:                  ad.ID,
		TextClean:             textClean,
		FirstArticle:          found.FirstArticle,
		BrandNearFirstArticle: found.BrandNearFirstArticle,
		AllArticles:           domain.Articles(found.AllArticles),
		AllBrands:             domain.Brands(found.AllBrands),
	}
}

// Stats returns a snapshot of the run counters.
func (e *Engine) Stats() RunStats {
	e.mu.Lock()
	defer e.mu.Unlock()
	stats := e.stats
	stats.RunID = e.RunID()
	return stats
}
