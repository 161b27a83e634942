package catalog

import (
	"context"
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"souq/internal/logging"
	"souq/internal/model"
)

type ProductStore interface {
	List(ctx context.Context) ([]model.Product, error)
	Save(ctx context.Context, p *model.Product) error
}

// Renormalize regrava os produtos cujas categorias estão fora do padrão.
// Produtos antigos chegaram por importação com "Home Appliances", "home_appliances" etc.
func Renormalize(ctx context.Context, repo ProductStore, workers int, logger *zap.Logger) (int, error) {
	logger = logging.OrNop(logger)
	if workers <= 0 {
		workers = 1
	}

	products, err := repo.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list products: %w", err)
	}

	jobs := make(chan model.Product)
	var updated atomic.Int64
	g, gctx := errgroup.WithContext(ctx)

	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for p := range jobs {
				if !p.NeedsNormalize() {
					continue
				}
				p.Normalize()
				if err := repo.Save(gctx, &p); err != nil {
					return fmt.Errorf("save product %s: %w", p.ID, err)
				}
				updated.Add(1)
				logger.Debug("product normalized", zap.String("product_id", p.ID), zap.String("category", p.Category))
			}
			return nil
		})
	}

	g.Go(func() error {
		defer close(jobs)
		for _, p := range products {
			select {
			case jobs <- p:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	err = g.Wait()
	logger.Info("renormalize finished", zap.Int("checked", len(products)), zap.Int64("updated", updated.Load()))
	return int(updated.Load()), err
}
