package model

import "time"

type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone,omitempty"`
	PasswordHash string    `json:"password_hash,omitempty"`
	Role         Role      `json:"role"`
	Lang         string    `json:"lang,omitempty"`
	Addresses    []Address `json:"addresses,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Public remove o hash antes de devolver o usuário para o cliente.
func (u User) Public() User {
	u.PasswordHash = ""
	return u
}

type Review struct {
	ID        string    `json:"id"`
	ProductID string    `json:"product_id"`
	UserID    string    `json:"user_id"`
	UserName  string    `json:"user_name,omitempty"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type CartItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type Cart struct {
	SessionID string     `json:"session_id"`
	Items     []CartItem `json:"items"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (c Cart) Count() int {
	n := 0
	for _, it := range c.Items {
		n += it.Quantity
	}
	return n
}

type Wishlist struct {
	SessionID  string    `json:"session_id"`
	ProductIDs []string  `json:"product_ids"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (w Wishlist) Has(productID string) bool {
	for _, id := range w.ProductIDs {
		if id == productID {
			return true
		}
	}
	return false
}
