package setup

import (
	"github.com/Stepan2222000/connect-article-avito/internal/brand"
	"github.com/Stepan2222000/connect-article-avito/internal/engine"
	"github.com/Stepan2222000/connect-article-avito/internal/normalizer"
	"github.com/Stepan2222000/connect-article-avito/internal/search"
	"github.com/Stepan2222000/connect-article-avito/internal/server"
	"github.com/Stepan2222000/connect-article-avito/internal/storage/pg"
	"github.com/Stepan2222000/connect-article-avito/shared/config"
)

// Dependencies struct to hold all initialized dependencies.
type Dependencies struct {
	Storage *pg.Storage
	Engine  *engine.Engine
	Mapper  *brand.Mapper
	Search  *search.Engine
	Handler *server.Handler
}

// SetupDependencies initializes all dependencies required for the application.
func SetupDependencies(cfg *config.Config) (*Dependencies, error) {
	storage, err := pg.New(cfg)
	if err != nil {
		return nil, err
	}

	norm := normalizer.New(cfg.Public.NormalizerCacheSize)
	mapper := brand.NewMapper(cfg.Public.BrandGroupsPath)
	searchEngine := search.NewEngine()
	eng := engine.New(cfg, storage, mapper, norm, searchEngine)
	h := server.NewHandler(searchEngine, mapper, eng, norm)

	return &Dependencies{
		Storage: storage,
		Engine:  eng,
		Mapper:  mapper,
		Search:  searchEngine,
		Handler: h,
	}, nil
}
