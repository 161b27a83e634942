package importer

import (
	"context"
	"io"

	"go.uber.org/zap"

	"souq/internal/logging"
	"souq/internal/model"
)

type ProductSaver interface {
	Save(ctx context.Context, p *model.Product) error
}

type Result struct {
	Imported int
	Skipped  int
}

type Importer struct {
	Products ProductSaver
	Logger   *zap.Logger
}

func (im *Importer) save(ctx context.Context, fp FeedProduct, res *Result) error {
	p := ToProduct(fp)
	if err := im.Products.Save(ctx, &p); err != nil {
		// item inválido não derruba a importação inteira
		logging.OrNop(im.Logger).Warn("skipping feed product", zap.String("feed_id", fp.ID), zap.Error(err))
		res.Skipped++
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return nil
	}
	res.Imported++
	return nil
}

// FromReader importa um arquivo JSON (array ou página do feed).
func (im *Importer) FromReader(ctx context.Context, r io.Reader) (Result, error) {
	items, err := Decode(r)
	if err != nil {
		return Result{}, err
	}
	var res Result
	for _, fp := range items {
		if err := im.save(ctx, fp, &res); err != nil {
			return res, err
		}
	}
	return res, nil
}

// FromURL importa todas as páginas de um feed remoto.
func (im *Importer) FromURL(ctx context.Context, feedURL string) (Result, error) {
	var res Result
	err := FetchAll(ctx, feedURL, func(fp FeedProduct) error {
		return im.save(ctx, fp, &res)
	})
	logging.OrNop(im.Logger).Info("feed import finished",
		zap.String("url", feedURL),
		zap.Int("imported", res.Imported),
		zap.Int("skipped", res.Skipped),
	)
	return res, err
}
