package api

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"shopctl/pkg/domain"
)

// CreateProduct is the payload for creating a catalog record.
type CreateProduct struct {
	SKU         string  `json:"sku"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
}

// UpdateProduct is a partial update; nil fields are left untouched.
type UpdateProduct struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	Price       *float64 `json:"price,omitempty"`
}

// ProductsClient calls the product endpoints. The catalog and admin
// sides share this contract; permission level comes from the token the
// source yields.
type ProductsClient struct {
	client *Client
}

// NewProductsClient constructs a products client.
func NewProductsClient(baseURL string, timeout time.Duration, token TokenSource) *ProductsClient {
	return &ProductsClient{client: NewClient(baseURL, timeout, token)}
}

// List fetches one catalog page.
func (p *ProductsClient) List(page, limit int) (domain.PagedProducts, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("limit", strconv.Itoa(limit))
	var raw rawPaged
	if err := p.client.doJSON(http.MethodGet, "/products", query, nil, &raw); err != nil {
		return domain.PagedProducts{}, err
	}
	return raw.normalize(page, limit), nil
}

// Search fetches one page of results matching q.
func (p *ProductsClient) Search(q string, page, limit int) (domain.PagedProducts, error) {
	query := url.Values{}
	query.Set("q", q)
	query.Set("page", strconv.Itoa(page))
	query.Set("limit", strconv.Itoa(limit))
	var raw rawPaged
	if err := p.client.doJSON(http.MethodGet, "/products/search", query, nil, &raw); err != nil {
		return domain.PagedProducts{}, err
	}
	return raw.normalize(page, limit), nil
}

// Get fetches a single product by ID.
func (p *ProductsClient) Get(id string) (domain.Product, error) {
	var raw rawProduct
	if err := p.client.doJSON(http.MethodGet, "/products/"+url.PathEscape(id), nil, nil, &raw); err != nil {
		return domain.Product{}, err
	}
	return raw.normalize(), nil
}

// Create registers a new product.
func (p *ProductsClient) Create(payload CreateProduct) (domain.Product, error) {
	var raw rawProduct
	if err := p.client.doJSON(http.MethodPost, "/products", nil, payload, &raw); err != nil {
		return domain.Product{}, err
	}
	return raw.normalize(), nil
}

// Update patches an existing product.
func (p *ProductsClient) Update(id string, payload UpdateProduct) (domain.Product, error) {
	var raw rawProduct
	if err := p.client.doJSON(http.MethodPatch, "/products/"+url.PathEscape(id), nil, payload, &raw); err != nil {
		return domain.Product{}, err
	}
	return raw.normalize(), nil
}

// Delete removes a product.
func (p *ProductsClient) Delete(id string) error {
	return p.client.doJSON(http.MethodDelete, "/products/"+url.PathEscape(id), nil, nil, nil)
}

// AdjustStock applies a relative stock change (delta may be negative).
func (p *ProductsClient) AdjustStock(id string, delta int) (domain.Product, error) {
	return p.stockAction(id, map[string]int{"delta": delta})
}

// SetStock sets the absolute stock level.
func (p *ProductsClient) SetStock(id string, stock int) (domain.Product, error) {
	return p.stockAction(id, map[string]int{"stock": stock})
}

func (p *ProductsClient) stockAction(id string, payload map[string]int) (domain.Product, error) {
	var raw rawProduct
	path := fmt.Sprintf("/products/%s/adjust-stock", url.PathEscape(id))
	if err := p.client.doJSON(http.MethodPost, path, nil, payload, &raw); err != nil {
		return domain.Product{}, err
	}
	return raw.normalize(), nil
}

// Purchase buys qty units, decrementing stock server-side.
func (p *ProductsClient) Purchase(id string, qty int) (domain.Product, error) {
	var raw rawProduct
	path := fmt.Sprintf("/products/%s/purchase", url.PathEscape(id))
	if err := p.client.doJSON(http.MethodPost, path, nil, map[string]int{"qty": qty}, &raw); err != nil {
		return domain.Product{}, err
	}
	return raw.normalize(), nil
}

// rawProduct tolerates the payload variations the server has been seen
// to produce: the identifier arrives as either "id" or "_id", and the
// description may be absent entirely.
type rawProduct struct {
	ID          string  `json:"id"`
	AltID       string  `json:"_id"`
	SKU         string  `json:"sku"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}

func (r rawProduct) normalize() domain.Product {
	id := r.ID
	if id == "" {
		id = r.AltID
	}
	return domain.Product{
		ID:          id,
		SKU:         r.SKU,
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		Stock:       r.Stock,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

type rawPaged struct {
	Items []rawProduct `json:"items"`
	Total int          `json:"total"`
	Page  *int         `json:"page"`
	Limit *int         `json:"limit"`
	Pages *int         `json:"pages"`
}

// normalize fills pagination metadata the server omitted from the
// values the caller requested, and recomputes pages when absent.
func (r rawPaged) normalize(reqPage, reqLimit int) domain.PagedProducts {
	items := make([]domain.Product, 0, len(r.Items))
	for _, raw := range r.Items {
		items = append(items, raw.normalize())
	}
	page := reqPage
	if r.Page != nil {
		page = *r.Page
	}
	limit := reqLimit
	if r.Limit != nil {
		limit = *r.Limit
	}
	pages := domain.PageCount(r.Total, limit)
	if r.Pages != nil {
		pages = *r.Pages
	}
	return domain.PagedProducts{
		Items: items,
		Total: r.Total,
		Page:  page,
		Limit: limit,
		Pages: pages,
	}
}
