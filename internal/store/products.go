// Package store holds the reactive state containers that synchronize
// remote resources with client-side views. Each store wraps one bounded
// concern, tracks loading/error/toast flags, and notifies subscribers
// after every state change.
package store

import (
	"log/slog"
	"strings"
	"sync"

	"shopctl/internal/api"
	"shopctl/internal/httperr"
	"shopctl/pkg/domain"
)

// Success messages for mutating commands.
const (
	ToastCreated   = "Product created"
	ToastUpdated   = "Product updated"
	ToastDeleted   = "Product deleted"
	ToastStockSet  = "Stock adjusted"
	ToastPurchased = "Purchase complete, stock updated"
)

const (
	catalogPageSize = 12
	adminPageSize   = 20
)

// ProductAPI is the slice of the products client a ProductStore drives.
type ProductAPI interface {
	List(page, limit int) (domain.PagedProducts, error)
	Search(q string, page, limit int) (domain.PagedProducts, error)
	Create(payload api.CreateProduct) (domain.Product, error)
	Update(id string, payload api.UpdateProduct) (domain.Product, error)
	Delete(id string) error
	AdjustStock(id string, delta int) (domain.Product, error)
	SetStock(id string, stock int) (domain.Product, error)
	Purchase(id string, qty int) (domain.Product, error)
}

// Snapshot is a point-in-time copy of a ProductStore's state.
type Snapshot struct {
	Query   string
	View    domain.PagedProducts
	Loading bool
	Err     string
	Toast   string
}

// ProductStore coordinates one paginated product collection. The
// catalog and admin sides are two instances of this type differing in
// the client they drive and their default page size.
//
// Overlapping commands are not serialized or cancelled: each mutates
// the store on its own resolution, so under rapid interaction a stale
// response can overwrite a fresher one (last-resolved-wins).
type ProductStore struct {
	notifier

	api ProductAPI

	mu       sync.Mutex
	query    string
	view     domain.PagedProducts
	inflight int
	errMsg   string
	toast    string
}

// NewCatalogStore builds the customer-facing catalog store.
func NewCatalogStore(productAPI ProductAPI) *ProductStore {
	return newProductStore(productAPI, catalogPageSize)
}

// NewAdminStore builds the administration store.
func NewAdminStore(productAPI ProductAPI) *ProductStore {
	return newProductStore(productAPI, adminPageSize)
}

func newProductStore(productAPI ProductAPI, limit int) *ProductStore {
	return &ProductStore{
		api: productAPI,
		view: domain.PagedProducts{
			Page:  1,
			Limit: limit,
			Pages: 1,
		},
	}
}

// Snapshot returns a copy of the current state. The item slice is
// copied so callers can hold it across later commands.
func (s *ProductStore) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	view := s.view
	view.Items = append([]domain.Product(nil), s.view.Items...)
	return Snapshot{
		Query:   s.query,
		View:    view,
		Loading: s.inflight > 0,
		Err:     s.errMsg,
		Toast:   s.toast,
	}
}

// SetQuery updates the search text without triggering a reload.
// Callers reload explicitly when they want fresh results.
func (s *ProductStore) SetQuery(q string) {
	s.mu.Lock()
	s.query = q
	s.errMsg = ""
	s.toast = ""
	s.mu.Unlock()
	s.notify()
}

// Load fetches one page, searching when the trimmed query is non-empty.
// Page and limit in the stored view are adopted from the server's echo,
// which lets the server clamp out-of-range pages. Non-positive page or
// limit fall back to the current view's values.
func (s *ProductStore) Load(page, limit int) {
	q := s.begin()
	s.mu.Lock()
	if page <= 0 {
		page = s.view.Page
	}
	if limit <= 0 {
		limit = s.view.Limit
	}
	s.mu.Unlock()

	view, err := s.fetch(q, page, limit)
	if err != nil {
		s.fail("load", err)
		return
	}
	s.mu.Lock()
	s.inflight--
	s.view = view
	s.mu.Unlock()
	s.notify()
}

// Create registers a product, then reloads page 1 so totals and page
// count come from the server rather than an ad-hoc local insert.
func (s *ProductStore) Create(payload api.CreateProduct) {
	q := s.begin()
	created, err := s.api.Create(payload)
	if err != nil {
		s.fail("create", err)
		return
	}
	slog.Debug("product created", "id", created.ID, "sku", created.SKU)

	s.mu.Lock()
	limit := s.view.Limit
	s.mu.Unlock()
	view, err := s.fetch(q, 1, limit)
	if err != nil {
		s.fail("create", err)
		return
	}
	s.resolveView(view, ToastCreated)
}

// Update patches a product and replaces the matching item in place;
// a field edit does not change page membership or ordering, so no
// reload is needed.
func (s *ProductStore) Update(id string, payload api.UpdateProduct) {
	s.begin()
	updated, err := s.api.Update(id, payload)
	if err != nil {
		s.fail("update", err)
		return
	}
	s.resolveItem(updated, ToastUpdated)
}

// Remove deletes a product, then reloads the current page: a deletion
// can shift page counts and must not leave an empty page displayed.
func (s *ProductStore) Remove(id string) {
	q := s.begin()
	if err := s.api.Delete(id); err != nil {
		s.fail("remove", err)
		return
	}
	s.mu.Lock()
	page, limit := s.view.Page, s.view.Limit
	s.mu.Unlock()
	view, err := s.fetch(q, page, limit)
	if err != nil {
		s.fail("remove", err)
		return
	}
	s.resolveView(view, ToastDeleted)
}

// AdjustStock applies a relative stock change server-side.
func (s *ProductStore) AdjustStock(id string, delta int) {
	s.begin()
	updated, err := s.api.AdjustStock(id, delta)
	if err != nil {
		s.fail("adjust-stock", err)
		return
	}
	s.resolveItem(updated, ToastStockSet)
}

// SetStock sets the absolute stock level server-side.
func (s *ProductStore) SetStock(id string, stock int) {
	s.begin()
	updated, err := s.api.SetStock(id, stock)
	if err != nil {
		s.fail("set-stock", err)
		return
	}
	s.resolveItem(updated, ToastStockSet)
}

// Purchase buys qty units. Callers verify an authenticated session
// before invoking; the store does not self-check authentication.
func (s *ProductStore) Purchase(id string, qty int) {
	s.begin()
	updated, err := s.api.Purchase(id, qty)
	if err != nil {
		s.fail("purchase", err)
		return
	}
	s.resolveItem(updated, ToastPurchased)
}

// begin starts a command: marks it in flight, clears the previous
// error and toast, and returns the trimmed query.
func (s *ProductStore) begin() string {
	s.mu.Lock()
	s.inflight++
	s.errMsg = ""
	s.toast = ""
	q := strings.TrimSpace(s.query)
	s.mu.Unlock()
	s.notify()
	return q
}

func (s *ProductStore) fetch(q string, page, limit int) (domain.PagedProducts, error) {
	if q != "" {
		return s.api.Search(q, page, limit)
	}
	return s.api.List(page, limit)
}

// fail settles a command with a translated error. Previously fetched
// data stays untouched.
func (s *ProductStore) fail(op string, err error) {
	msg := httperr.Translate(err)
	s.mu.Lock()
	s.inflight--
	s.errMsg = msg
	s.mu.Unlock()
	slog.Warn("store command failed", "op", op, "err", err)
	s.notify()
}

func (s *ProductStore) resolveView(view domain.PagedProducts, toast string) {
	s.mu.Lock()
	s.inflight--
	s.view = view
	s.toast = toast
	s.mu.Unlock()
	s.notify()
}

// resolveItem settles a mutating command by replacing the matching
// item in the current page. Total and pages are unaffected.
func (s *ProductStore) resolveItem(updated domain.Product, toast string) {
	s.mu.Lock()
	s.inflight--
	for i, item := range s.view.Items {
		if item.ID == updated.ID {
			s.view.Items[i] = updated
			break
		}
	}
	s.toast = toast
	s.mu.Unlock()
	s.notify()
}
