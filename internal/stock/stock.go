// Package stock sincroniza o estoque do catálogo com a API do fornecedor.
package stock

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"souq/internal/logging"
	"souq/internal/model"
)

type StockResponse struct {
	Success bool       `json:"success"`
	Result  *StockData `json:"result"`
	Errors  any        `json:"errors"`
}

type StockData struct {
	ID              string          `json:"id"`
	StockLevelTotal int             `json:"stockLevelTotal"`
	TotalReserved   int             `json:"totalReserved"`
	Locations       []StockLocation `json:"locations"`
}

type StockLocation struct {
	LocationID string `json:"locationId"`
	StockLevel int    `json:"stockLevel"`
	Reserved   int    `json:"reserved"`
}

// Available é o que pode ser vendido: total menos reservado, nunca negativo.
func (d StockData) Available() int {
	n := d.StockLevelTotal - d.TotalReserved
	if n < 0 {
		return 0
	}
	return n
}

type Client struct {
	URL    string // base; o ID do produto vai no fim do caminho
	APIKey string
	HTTP   *http.Client
}

func (c *Client) Level(ctx context.Context, productID string) (int, error) {
	endpoint := strings.TrimRight(c.URL, "/") + "/" + url.PathEscape(productID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	if c.APIKey != "" {
		req.Header.Set("x-Gateway-APIKey", c.APIKey)
	}

	client := c.HTTP
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	resp, err := client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	var stockResp StockResponse
	if err := json.NewDecoder(resp.Body).Decode(&stockResp); err != nil {
		return 0, fmt.Errorf("failed to decode response: %w", err)
	}
	if !stockResp.Success || stockResp.Result == nil {
		return 0, fmt.Errorf("stock API reported failure for %s", productID)
	}
	return stockResp.Result.Available(), nil
}

type Leveler interface {
	Level(ctx context.Context, productID string) (int, error)
}

type Catalog interface {
	List(ctx context.Context) ([]model.Product, error)
	Save(ctx context.Context, p *model.Product) error
}

type Result struct {
	Checked int
	Updated int
	Failed  int
}

// Sync consulta cada produto com um pool de workers e grava só o que mudou.
// Falhas individuais são registradas e contadas, sem interromper o resto.
func Sync(ctx context.Context, repo Catalog, api Leveler, workers int, delay time.Duration, logger *zap.Logger) (Result, error) {
	logger = logging.OrNop(logger)
	if workers <= 0 {
		workers = 1
	}
	products, err := repo.List(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("list products: %w", err)
	}
	logger.Info("stock sync started", zap.Int("products", len(products)), zap.Int("workers", workers))

	jobs := make(chan model.Product, len(products))
	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		res Result
	)
	count := func(f func(*Result)) {
		mu.Lock()
		f(&res)
		mu.Unlock()
	}

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for p := range jobs {
				if ctx.Err() != nil {
					return
				}
				if delay > 0 {
					time.Sleep(delay)
				}
				level, err := api.Level(ctx, p.ID)
				if err != nil {
					logger.Warn("stock check failed", zap.String("product_id", p.ID), zap.Error(err))
					count(func(r *Result) { r.Checked++; r.Failed++ })
					continue
				}
				if level == p.Stock {
					count(func(r *Result) { r.Checked++ })
					continue
				}
				p.Stock = level
				if err := repo.Save(ctx, &p); err != nil {
					logger.Error("stock update failed", zap.String("product_id", p.ID), zap.Error(err))
					count(func(r *Result) { r.Checked++; r.Failed++ })
					continue
				}
				logger.Debug("stock updated", zap.String("product_id", p.ID), zap.Int("stock", level))
				count(func(r *Result) { r.Checked++; r.Updated++ })
			}
		}()
	}

	for _, p := range products {
		jobs <- p
	}
	close(jobs)
	wg.Wait()

	logger.Info("stock sync finished",
		zap.Int("checked", res.Checked),
		zap.Int("updated", res.Updated),
		zap.Int("failed", res.Failed),
	)
	return res, ctx.Err()
}
