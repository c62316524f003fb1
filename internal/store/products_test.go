package store

import (
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"shopctl/internal/api"
	"shopctl/pkg/domain"
)

// fakeProducts is an in-memory ProductAPI. Set err to make the next
// calls fail; calls records the invoked operations in order.
type fakeProducts struct {
	mu    sync.Mutex
	items []domain.Product
	err   error
	calls []string

	// listGates are consumed in call order; a gated List call blocks
	// until its gate yields the response. Used to overlap in-flight
	// commands deterministically.
	listGates []chan domain.PagedProducts
}

func (f *fakeProducts) record(op string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, op)
}

func (f *fakeProducts) page(page, limit int) domain.PagedProducts {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := len(f.items)
	pages := domain.PageCount(total, limit)
	if page > pages {
		page = pages
	}
	start := (page - 1) * limit
	end := start + limit
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}
	return domain.PagedProducts{
		Items: append([]domain.Product(nil), f.items[start:end]...),
		Total: total,
		Page:  page,
		Limit: limit,
		Pages: pages,
	}
}

func (f *fakeProducts) List(page, limit int) (domain.PagedProducts, error) {
	f.record("list")
	f.mu.Lock()
	var gate chan domain.PagedProducts
	if len(f.listGates) > 0 {
		gate = f.listGates[0]
		f.listGates = f.listGates[1:]
	}
	f.mu.Unlock()
	if gate != nil {
		return <-gate, nil
	}
	if f.err != nil {
		return domain.PagedProducts{}, f.err
	}
	return f.page(page, limit), nil
}

func (f *fakeProducts) Search(q string, page, limit int) (domain.PagedProducts, error) {
	f.record("search")
	if f.err != nil {
		return domain.PagedProducts{}, f.err
	}
	return f.page(page, limit), nil
}

func (f *fakeProducts) Create(payload api.CreateProduct) (domain.Product, error) {
	f.record("create")
	if f.err != nil {
		return domain.Product{}, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	p := domain.Product{
		ID:    "p" + string(rune('0'+len(f.items)+1)),
		SKU:   payload.SKU,
		Name:  payload.Name,
		Price: payload.Price,
		Stock: payload.Stock,
	}
	f.items = append([]domain.Product{p}, f.items...)
	return p, nil
}

func (f *fakeProducts) Update(id string, payload api.UpdateProduct) (domain.Product, error) {
	f.record("update")
	if f.err != nil {
		return domain.Product{}, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, p := range f.items {
		if p.ID == id {
			if payload.Name != nil {
				p.Name = *payload.Name
			}
			if payload.Description != nil {
				p.Description = payload.Description
			}
			if payload.Price != nil {
				p.Price = *payload.Price
			}
			f.items[i] = p
			return p, nil
		}
	}
	return domain.Product{}, &api.Error{Status: 404}
}

func (f *fakeProducts) Delete(id string) error {
	f.record("delete")
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, p := range f.items {
		if p.ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return &api.Error{Status: 404}
}

func (f *fakeProducts) mutateStock(id string, apply func(int) int) (domain.Product, error) {
	if f.err != nil {
		return domain.Product{}, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, p := range f.items {
		if p.ID == id {
			p.Stock = apply(p.Stock)
			f.items[i] = p
			return p, nil
		}
	}
	return domain.Product{}, &api.Error{Status: 404}
}

func (f *fakeProducts) AdjustStock(id string, delta int) (domain.Product, error) {
	f.record("adjust")
	return f.mutateStock(id, func(s int) int { return s + delta })
}

func (f *fakeProducts) SetStock(id string, stock int) (domain.Product, error) {
	f.record("set-stock")
	return f.mutateStock(id, func(int) int { return stock })
}

func (f *fakeProducts) Purchase(id string, qty int) (domain.Product, error) {
	f.record("purchase")
	return f.mutateStock(id, func(s int) int { return s - qty })
}

func seedProducts(n int) []domain.Product {
	items := make([]domain.Product, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, domain.Product{
			ID:    "p" + string(rune('a'+i)),
			SKU:   "SKU-" + string(rune('a'+i)),
			Name:  "Item " + string(rune('a'+i)),
			Price: float64(i + 1),
			Stock: 3,
		})
	}
	return items
}

func TestLoadAdoptsServerEchoedPage(t *testing.T) {
	// 5 items, limit 2 -> 3 pages; requesting page 9 gets clamped.
	fake := &fakeProducts{items: seedProducts(5)}
	s := NewCatalogStore(fake)

	s.Load(9, 2)

	snap := s.Snapshot()
	require.Empty(t, snap.Err)
	require.Equal(t, 3, snap.View.Page, "view page must come from server echo")
	require.Equal(t, 2, snap.View.Limit)
	require.False(t, snap.Loading)
}

func TestLoadUsesSearchWhenQuerySet(t *testing.T) {
	fake := &fakeProducts{items: seedProducts(3)}
	s := NewCatalogStore(fake)

	s.SetQuery("  widget  ")
	s.Load(1, 10)
	require.Equal(t, []string{"search"}, fake.calls)

	s.SetQuery("   ")
	s.Load(1, 10)
	require.Equal(t, []string{"search", "list"}, fake.calls)
}

func TestLoadIdempotent(t *testing.T) {
	fake := &fakeProducts{items: seedProducts(5)}
	s := NewCatalogStore(fake)

	s.Load(1, 2)
	first := s.Snapshot().View
	s.Load(1, 2)
	second := s.Snapshot().View

	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("repeated load changed view (-first +second):\n%s", diff)
	}
}

func TestLoadFailureLeavesPriorState(t *testing.T) {
	fake := &fakeProducts{items: seedProducts(4)}
	s := NewCatalogStore(fake)
	s.Load(1, 2)
	good := s.Snapshot().View

	fake.err = &api.Error{Status: 500, Message: "boom"}
	s.Load(2, 2)

	snap := s.Snapshot()
	require.Equal(t, "boom", snap.Err)
	if diff := cmp.Diff(good, snap.View); diff != "" {
		t.Fatalf("failed load corrupted state:\n%s", diff)
	}
}

func TestCreateReloadsFirstPage(t *testing.T) {
	fake := &fakeProducts{items: seedProducts(2)}
	s := NewAdminStore(fake)
	s.Load(1, 10)
	fake.calls = nil

	s.Create(api.CreateProduct{SKU: "NEW", Name: "New item", Price: 5, Stock: 1})

	require.Equal(t, []string{"create", "list"}, fake.calls)
	snap := s.Snapshot()
	require.Empty(t, snap.Err)
	require.Equal(t, ToastCreated, snap.Toast)
	require.Equal(t, 1, snap.View.Page)
	require.Equal(t, 3, snap.View.Total)

	seen := 0
	for _, p := range snap.View.Items {
		if p.SKU == "NEW" {
			seen++
		}
	}
	require.Equal(t, 1, seen, "created entity must appear exactly once")
}

func TestUpdateReplacesItemInPlace(t *testing.T) {
	fake := &fakeProducts{items: seedProducts(3)}
	s := NewAdminStore(fake)
	s.Load(1, 10)
	before := s.Snapshot().View
	fake.calls = nil

	name := "Renamed"
	s.Update("pb", api.UpdateProduct{Name: &name})

	require.Equal(t, []string{"update"}, fake.calls, "field edit must not reload the page")
	snap := s.Snapshot()
	require.Equal(t, ToastUpdated, snap.Toast)
	require.Equal(t, before.Total, snap.View.Total)
	require.Equal(t, before.Pages, snap.View.Pages)
	for i, p := range snap.View.Items {
		if p.ID == "pb" {
			require.Equal(t, "Renamed", p.Name)
			continue
		}
		if diff := cmp.Diff(before.Items[i], p); diff != "" {
			t.Fatalf("untouched item changed:\n%s", diff)
		}
	}
}

func TestRemoveReloadsCurrentPage(t *testing.T) {
	fake := &fakeProducts{items: seedProducts(5)}
	s := NewAdminStore(fake)
	s.Load(3, 2)
	fake.calls = nil

	s.Remove("pe")

	require.Equal(t, []string{"delete", "list"}, fake.calls)
	snap := s.Snapshot()
	require.Equal(t, ToastDeleted, snap.Toast)
	require.Equal(t, 4, snap.View.Total)
	// page 3 no longer exists after the delete; the reload echoes the
	// clamped page.
	require.Equal(t, 2, snap.View.Page)
}

func TestAdjustStockConflictLeavesItemUntouched(t *testing.T) {
	fake := &fakeProducts{items: seedProducts(2)}
	s := NewAdminStore(fake)
	s.Load(1, 10)
	fake.err = &api.Error{Status: 409, Message: "insufficient stock"}

	s.AdjustStock("pa", -5)

	snap := s.Snapshot()
	require.Equal(t, "insufficient stock", snap.Err)
	require.Empty(t, snap.Toast)
	require.Equal(t, 3, snap.View.Items[0].Stock, "cached stock must be unchanged")
}

func TestCommandClearsPreviousOutcomeBeforeResolving(t *testing.T) {
	fake := &fakeProducts{items: seedProducts(2)}
	s := NewCatalogStore(fake)

	fake.err = &api.Error{Status: 500, Message: "boom"}
	s.Load(1, 10)
	require.Equal(t, "boom", s.Snapshot().Err)

	// Gate the next list call so the pending window is observable.
	fake.err = nil
	gate := make(chan domain.PagedProducts)
	fake.mu.Lock()
	fake.listGates = append(fake.listGates, gate)
	fake.mu.Unlock()
	done := make(chan struct{})
	go func() {
		s.Load(1, 10)
		close(done)
	}()

	waitFor(t, func() bool { return s.Snapshot().Loading })
	pending := s.Snapshot()
	require.Empty(t, pending.Err, "previous error must be cleared at command start")
	require.Empty(t, pending.Toast)

	gate <- fake.page(1, 10)
	<-done
	require.False(t, s.Snapshot().Loading)
}

func TestOutcomesMutuallyExclusive(t *testing.T) {
	fake := &fakeProducts{items: seedProducts(3)}
	s := NewAdminStore(fake)

	run := []func(){
		func() { s.Load(1, 10) },
		func() { s.Create(api.CreateProduct{SKU: "X", Name: "X"}) },
		func() { s.Purchase("pa", 1) },
		func() { s.Remove("pb") },
	}
	for i, cmd := range run {
		cmd()
		snap := s.Snapshot()
		if snap.Err != "" && snap.Toast != "" {
			t.Fatalf("command %d settled with both error %q and toast %q", i, snap.Err, snap.Toast)
		}
	}

	s.SetQuery("q")
	snap := s.Snapshot()
	require.Empty(t, snap.Err)
	require.Empty(t, snap.Toast)
}

func TestSetQueryDoesNotTriggerRequests(t *testing.T) {
	fake := &fakeProducts{}
	s := NewCatalogStore(fake)
	s.SetQuery("anything")
	require.Empty(t, fake.calls)
}

func TestOverlappingLoadsLastResolvedWins(t *testing.T) {
	staleGate := make(chan domain.PagedProducts)
	freshGate := make(chan domain.PagedProducts)
	fake := &fakeProducts{listGates: []chan domain.PagedProducts{staleGate, freshGate}}
	s := NewCatalogStore(fake)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() { defer wg.Done(); s.Load(1, 10) }()
	waitFor(t, func() bool { return len(callsCopy(fake)) == 1 })
	go func() { defer wg.Done(); s.Load(2, 10) }()
	waitFor(t, func() bool { return len(callsCopy(fake)) == 2 })

	// Resolve the fresher request first, then the stale one. The stale
	// response overwrites: the design does not cancel superseded loads.
	freshGate <- domain.PagedProducts{Page: 2, Limit: 10, Pages: 3, Total: 30}
	waitFor(t, func() bool { return s.Snapshot().View.Page == 2 })
	staleGate <- domain.PagedProducts{Page: 1, Limit: 10, Pages: 3, Total: 30}
	wg.Wait()

	snap := s.Snapshot()
	require.Equal(t, 1, snap.View.Page, "stale response is allowed to win")
	require.False(t, snap.Loading)
}

func TestSubscribeNotifiesOnCommands(t *testing.T) {
	fake := &fakeProducts{items: seedProducts(1)}
	s := NewCatalogStore(fake)

	var mu sync.Mutex
	count := 0
	cancel := s.Subscribe(func() {
		mu.Lock()
		count++
		mu.Unlock()
	})

	s.Load(1, 10)
	mu.Lock()
	afterLoad := count
	mu.Unlock()
	require.GreaterOrEqual(t, afterLoad, 2, "begin and resolve must both notify")

	cancel()
	s.Load(1, 10)
	mu.Lock()
	require.Equal(t, afterLoad, count, "cancelled subscriber must not fire")
	mu.Unlock()
}
