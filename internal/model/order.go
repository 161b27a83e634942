package model

import "time"

type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
)

var transitions = map[OrderStatus][]OrderStatus{
	StatusPending:    {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusShipped, StatusCancelled},
	StatusShipped:    {StatusDelivered},
}

func ParseOrderStatus(s string) (OrderStatus, bool) {
	st := OrderStatus(s)
	switch st {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return st, true
	}
	return "", false
}

func CanTransition(from, to OrderStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func (s OrderStatus) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

type Address struct {
	FullName   string `json:"full_name"`
	Phone      string `json:"phone"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	Region     string `json:"region,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	Country    string `json:"country"`
}

func (a Address) Complete() bool {
	return a.FullName != "" && a.Phone != "" && a.Line1 != "" && a.City != "" && a.Country != ""
}

type OrderItem struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	NameAr    string  `json:"name_ar,omitempty"`
	Image     string  `json:"image,omitempty"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  int     `json:"quantity"`
}

func (i OrderItem) LineTotal() float64 {
	return i.UnitPrice * float64(i.Quantity)
}

type StatusChange struct {
	Status OrderStatus `json:"status"`
	Note   string      `json:"note,omitempty"`
	At     time.Time   `json:"at"`
}

type Order struct {
	ID        string         `json:"id"`
	Number    string         `json:"number"`
	UserID    string         `json:"user_id"`
	Items     []OrderItem    `json:"items"`
	Subtotal  float64        `json:"subtotal"`
	Shipping  float64        `json:"shipping"`
	Total     float64        `json:"total"`
	Status    OrderStatus    `json:"status"`
	Address   Address        `json:"address"`
	History   []StatusChange `json:"history"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}
