// Package importer carrega produtos de um feed JSON de fornecedor, local ou
// remoto, e grava no catálogo.
package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var httpClient = &http.Client{
	Timeout: 60 * time.Second,
}

// FeedPage é uma página do feed remoto; a próxima vem no link rel=next.
type FeedPage struct {
	TotalResults int           `json:"totalResults"`
	Links        []FeedLink    `json:"links"`
	Items        []FeedProduct `json:"items"`
}

type FeedLink struct {
	Rel  string `json:"rel"`
	Href string `json:"href"`
}

// FeedProduct aceita os nomes de campo do feed e também os do próprio catálogo,
// para que um export da loja possa ser reimportado.
type FeedProduct struct {
	ID            string   `json:"id"`
	DisplayName   string   `json:"displayName"`
	Name          string   `json:"name"`
	NameAr        string   `json:"name_ar"`
	Description   string   `json:"description"`
	LongDesc      string   `json:"longDescription"`
	DescriptionAr string   `json:"description_ar"`
	Brand         string   `json:"brand"`
	Category      string   `json:"category"`
	Subcategory   string   `json:"subcategory"`
	ListPrice     float64  `json:"listPrice"`
	Price         float64  `json:"price"`
	SalePrice     float64  `json:"salePrice"`
	SalePriceAlt  float64  `json:"sale_price"`
	Stock         int      `json:"stock"`
	Featured      bool     `json:"featured"`
	PrimaryImg    string   `json:"primaryFullImageURL"`
	Images        []string `json:"images"`
}

// Decode lê um array JSON de produtos ou um objeto com "items".
func Decode(r io.Reader) ([]FeedProduct, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read feed: %w", err)
	}
	trimmed := strings.TrimSpace(string(b))
	if strings.HasPrefix(trimmed, "[") {
		var items []FeedProduct
		if err := json.Unmarshal(b, &items); err != nil {
			return nil, fmt.Errorf("decode feed: %w", err)
		}
		return items, nil
	}
	var page FeedPage
	if err := json.Unmarshal(b, &page); err != nil {
		return nil, fmt.Errorf("decode feed: %w", err)
	}
	return page.Items, nil
}

// FetchAll percorre o feed seguindo os links next até acabar.
func FetchAll(ctx context.Context, feedURL string, handler func(FeedProduct) error) error {
	base, err := url.Parse(feedURL)
	if err != nil {
		return fmt.Errorf("invalid feed url %s: %w", feedURL, err)
	}
	nextURL := feedURL
	seen := map[string]bool{}

	for nextURL != "" {
		if seen[nextURL] {
			return fmt.Errorf("feed links loop back to %s", nextURL)
		}
		seen[nextURL] = true

		page, err := fetchPage(ctx, nextURL)
		if err != nil {
			return err
		}
		for _, p := range page.Items {
			if err := handler(p); err != nil {
				return err
			}
		}

		nextURL = ""
		for _, link := range page.Links {
			if link.Rel == "next" {
				href := strings.TrimSpace(link.Href)
				ref, err := url.Parse(href)
				if err != nil {
					return fmt.Errorf("invalid next link %s: %w", href, err)
				}
				nextURL = base.ResolveReference(ref).String()
				break
			}
		}
	}
	return nil
}

func fetchPage(ctx context.Context, pageURL string) (FeedPage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return FeedPage{}, fmt.Errorf("failed to create request for %s: %w", pageURL, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return FeedPage{}, fmt.Errorf("failed to fetch %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return FeedPage{}, fmt.Errorf("feed status %d for %s", resp.StatusCode, pageURL)
	}

	var page FeedPage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return FeedPage{}, fmt.Errorf("failed to decode response from %s: %w", pageURL, err)
	}
	return page, nil
}
