package domain

type ActorRole string

const (
	RoleAdmin    ActorRole = "ADMIN"
	RoleCustomer ActorRole = "CUSTOMER"
)

// Actor is the authenticated identity behind a session token.
type Actor struct {
	UserID string    `json:"userId"`
	Email  string    `json:"email"`
	Role   ActorRole `json:"role"`
}

// Product is a catalog record. Timestamps are server-assigned and
// read-only on this side; price and stock are never negative in a
// valid record — the server is the source of truth after each round trip.
type Product struct {
	ID          string  `json:"id"`
	SKU         string  `json:"sku"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	CreatedAt   string  `json:"createdAt,omitempty"`
	UpdatedAt   string  `json:"updatedAt,omitempty"`
}

// PagedProducts is one page of catalog results plus pagination metadata.
// Page and Limit reflect the last completed request as echoed by the
// server, never an in-flight value.
type PagedProducts struct {
	Items []Product `json:"items"`
	Total int       `json:"total"`
	Page  int       `json:"page"`
	Limit int       `json:"limit"`
	Pages int       `json:"pages"`
}

// PageCount computes pages as max(1, ceil(total/limit)). Used as a
// fallback when the server omits the pages field.
func PageCount(total, limit int) int {
	if limit <= 0 {
		return 1
	}
	pages := (total + limit - 1) / limit
	if pages < 1 {
		return 1
	}
	return pages
}
