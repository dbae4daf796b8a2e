package domain

import (
	"time"

	"github.com/lib/pq"
)

type (
	AdID        = int64
	Brand       = string
	ArticleCode = string

	// Articles are stored as Postgres text[] columns.
	Articles = pq.StringArray
	Brands   = pq.StringArray
)

// Advertisement is one listing pulled from the source tables.
// TextRaw is the title, description and characteristic concatenated
// by the retrieval query.
type Advertisement struct {
	ID             AdID
	Title          string
	Description    string
	Characteristic string
	TextRaw        string
}

// SearchStats is the per-call portion of a cascade search outcome.
type SearchStats struct {
	BrandsFound   int           `json:"brands_found"`
	ArticlesFound int           `json:"articles_found"`
	Duration      time.Duration `json:"duration"`
}

// SearchResult is the outcome of one cascade search over one normalized text.
// FirstArticle is the earliest article occurrence by start position;
// BrandNearFirstArticle is the brand the dictionary pairs with that article,
// not the brand token textually closest to it. Empty strings mean "none".
type SearchResult struct {
	FirstArticle          ArticleCode
	BrandNearFirstArticle Brand
	AllArticles           []ArticleCode // position order, duplicates allowed
	AllBrands             []Brand       // every brand matched at stage 1
	Stats                 SearchStats
}

// ExtractionResult is what gets upserted into avito_parts_resolved,
// keyed by AdID.
type ExtractionResult struct {
	AdID                  AdID
	TextClean             string
	FirstArticle          ArticleCode
	BrandNearFirstArticle Brand
	AllArticles           Articles
	AllBrands             Brands
}
