// Package admin reúne as operações do painel: catálogo, pedidos e indicadores.
package admin

import (
	"context"
	"errors"
	"io"
	"math"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"souq/internal/apperr"
	"souq/internal/logging"
	"souq/internal/model"
	"souq/internal/orders"
	"souq/internal/repository"
	"souq/internal/sanitize"
)

// DefaultLowStock é o limite usado quando o painel não informa outro.
const DefaultLowStock = 5

// Uploader hospeda a imagem e devolve a URL pública.
type Uploader interface {
	Upload(ctx context.Context, filename string, r io.Reader) (string, error)
}

type Service struct {
	Products *repository.ProductRepository
	Orders   *repository.OrderRepository
	Checkout *orders.Service
	Uploader Uploader
	Logger   *zap.Logger
}

func (s *Service) log() *zap.Logger { return logging.OrNop(s.Logger) }

func clean(p *model.Product) {
	p.Name = strings.TrimSpace(p.Name)
	p.NameAr = strings.TrimSpace(p.NameAr)
	p.Description = sanitize.Text(p.Description)
	p.DescriptionAr = sanitize.Text(p.DescriptionAr)
	p.Brand = strings.TrimSpace(p.Brand)
	if p.Stock < 0 {
		p.Stock = 0
	}
}

// CreateProduct aceita ID vindo do formulário, mas nunca sobrescreve um produto existente.
func (s *Service) CreateProduct(ctx context.Context, p model.Product) (model.Product, error) {
	if p.ID != "" {
		_, err := s.Products.Get(ctx, p.ID)
		if err == nil {
			return model.Product{}, apperr.New(apperr.CodeProductExists, apperr.ErrConflict, "product already exists")
		}
		if !errors.Is(err, apperr.ErrNotFound) {
			return model.Product{}, err
		}
	}
	clean(&p)
	p.CreatedAt = time.Time{}
	// rating e reviews vêm das avaliações, nunca do formulário
	p.Rating, p.ReviewCount = 0, 0
	if err := s.Products.Save(ctx, &p); err != nil {
		return model.Product{}, err
	}
	s.log().Info("product created", zap.String("product_id", p.ID), zap.String("category", p.Category))
	return p, nil
}

// UpdateProduct substitui os campos editáveis preservando datas e avaliações.
func (s *Service) UpdateProduct(ctx context.Context, id string, p model.Product) (model.Product, error) {
	cur, err := s.Products.Get(ctx, id)
	if err != nil {
		return model.Product{}, err
	}
	clean(&p)
	p.ID = cur.ID
	p.CreatedAt = cur.CreatedAt
	p.Rating = cur.Rating
	p.ReviewCount = cur.ReviewCount
	if err := s.Products.Save(ctx, &p); err != nil {
		return model.Product{}, err
	}
	s.log().Info("product updated", zap.String("product_id", p.ID))
	return p, nil
}

func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	if err := s.Products.Delete(ctx, id); err != nil {
		return err
	}
	s.log().Info("product deleted", zap.String("product_id", id))
	return nil
}

// ListOrders devolve os pedidos mais recentes primeiro; status vazio traz todos.
func (s *Service) ListOrders(ctx context.Context, status string) ([]model.Order, error) {
	all, err := s.Orders.List(ctx)
	if err != nil {
		return nil, err
	}
	if status == "" {
		return all, nil
	}
	st, ok := model.ParseOrderStatus(status)
	if !ok {
		return nil, apperr.New(apperr.CodeInvalid, apperr.ErrInvalid, "unknown order status "+status)
	}
	out := make([]model.Order, 0, len(all))
	for _, o := range all {
		if o.Status == st {
			out = append(out, o)
		}
	}
	return out, nil
}

func (s *Service) SetOrderStatus(ctx context.Context, id, status, note string) (model.Order, error) {
	st, ok := model.ParseOrderStatus(status)
	if !ok {
		return model.Order{}, apperr.New(apperr.CodeInvalid, apperr.ErrInvalid, "unknown order status "+status)
	}
	return s.Checkout.UpdateStatus(ctx, id, st, note)
}

func (s *Service) UploadImage(ctx context.Context, filename string, r io.Reader) (string, error) {
	if s.Uploader == nil {
		return "", apperr.New(apperr.CodeUploadFailed, apperr.ErrInvalid, "image upload is not configured")
	}
	url, err := s.Uploader.Upload(ctx, filename, r)
	if err != nil {
		s.log().Warn("image upload failed", zap.String("file", filename), zap.Error(err))
		return "", err
	}
	return url, nil
}

type LowStockItem struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Stock int    `json:"stock"`
}

type Stats struct {
	Products       int                       `json:"products"`
	OutOfStock     int                       `json:"out_of_stock"`
	Orders         int                       `json:"orders"`
	OrdersByStatus map[model.OrderStatus]int `json:"orders_by_status"`
	Revenue        float64                   `json:"revenue"`
	LowStock       []LowStockItem            `json:"low_stock"`
}

// Stats calcula os indicadores do painel. Pedidos cancelados não contam na receita.
func (s *Service) Stats(ctx context.Context, lowStock int) (Stats, error) {
	if lowStock <= 0 {
		lowStock = DefaultLowStock
	}
	products, err := s.Products.List(ctx)
	if err != nil {
		return Stats{}, err
	}
	all, err := s.Orders.List(ctx)
	if err != nil {
		return Stats{}, err
	}

	st := Stats{
		Products:       len(products),
		Orders:         len(all),
		OrdersByStatus: map[model.OrderStatus]int{},
		LowStock:       []LowStockItem{},
	}
	for _, p := range products {
		if p.Stock == 0 {
			st.OutOfStock++
		}
		if p.Stock <= lowStock {
			st.LowStock = append(st.LowStock, LowStockItem{ID: p.ID, Name: p.Name, Stock: p.Stock})
		}
	}
	sort.SliceStable(st.LowStock, func(i, j int) bool {
		if st.LowStock[i].Stock != st.LowStock[j].Stock {
			return st.LowStock[i].Stock < st.LowStock[j].Stock
		}
		return st.LowStock[i].ID < st.LowStock[j].ID
	})
	for _, o := range all {
		st.OrdersByStatus[o.Status]++
		if o.Status != model.StatusCancelled {
			st.Revenue += o.Total
		}
	}
	st.Revenue = math.Round(st.Revenue*100) / 100
	return st, nil
}
