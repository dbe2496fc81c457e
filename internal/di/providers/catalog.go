package providers

import (
	"context"
	"time"

	"github.com/samber/do/v2"

	"github.com/bookconnect/bookconnect-server/internal/catalog"
	"github.com/bookconnect/bookconnect-server/internal/config"
	"github.com/bookconnect/bookconnect-server/internal/logger"
	"github.com/bookconnect/bookconnect-server/internal/metrics"
	"github.com/bookconnect/bookconnect-server/internal/source"
)

// catalogLoadTimeout bounds the startup read of the catalog source.
const catalogLoadTimeout = time.Minute

// ProvideCatalog loads the catalog once at startup. Any failure is fatal.
func ProvideCatalog(i do.Injector) (*catalog.Catalog, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	loader, err := source.Open(cfg.Catalog.Format, cfg.Catalog.Path, log.Logger)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), catalogLoadTimeout)
	defer cancel()

	start := time.Now()
	data, err := loader.Load(ctx)
	if err != nil {
		return nil, err
	}
	cat, err := data.Catalog()
	if err != nil {
		return nil, err
	}

	metrics.CatalogBooks.Set(float64(cat.Len()))
	log.Info("Catalog loaded",
		"path", cfg.Catalog.Path,
		"books", cat.Len(),
		"authors", len(data.Authors),
		"genres", len(data.Genres),
		"duration", time.Since(start),
	)

	return cat, nil
}
