package inmemory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/wichananm65/arts-market-backend/internal/cart"
	"github.com/wichananm65/arts-market-backend/internal/order"
	"github.com/wichananm65/arts-market-backend/internal/product"
)

// Store keeps products, stores, cart lines and orders in one process-local
// snapshot. Transactions work on a copy that replaces the snapshot on success.
type Store struct {
	mu sync.Mutex
	st state
}

var (
	_ product.Repository = (*Store)(nil)
	_ cart.Repository    = (*Store)(nil)
	_ order.Store        = (*Store)(nil)
)

type lineKey struct {
	userID    int64
	productID int64
}

type shop struct {
	ID      int64
	OwnerID int64
	Name    string
}

type state struct {
	products map[int64]product.Product
	shops    map[int64]shop
	lines    map[lineKey]cart.Line
	orders   map[int64]order.Order

	nextProductID int64
	nextShopID    int64
	nextOrderID   int64
	nextItemID    int64
}

func NewStore() *Store {
	return &Store{st: state{
		products:      make(map[int64]product.Product),
		shops:         make(map[int64]shop),
		lines:         make(map[lineKey]cart.Line),
		orders:        make(map[int64]order.Order),
		nextProductID: 1,
		nextShopID:    1,
		nextOrderID:   1,
		nextItemID:    1,
	}}
}

func (s state) clone() state {
	out := s
	out.products = make(map[int64]product.Product, len(s.products))
	for k, v := range s.products {
		out.products[k] = v
	}
	out.shops = make(map[int64]shop, len(s.shops))
	for k, v := range s.shops {
		out.shops[k] = v
	}
	out.lines = make(map[lineKey]cart.Line, len(s.lines))
	for k, v := range s.lines {
		out.lines[k] = v
	}
	out.orders = make(map[int64]order.Order, len(s.orders))
	for k, v := range s.orders {
		out.orders[k] = copyOrder(v)
	}
	return out
}

func copyOrder(o order.Order) order.Order {
	items := make([]order.Item, len(o.Items))
	copy(items, o.Items)
	o.Items = items
	return o
}

// AddStore registers a store owned by ownerID and returns its id.
func (s *Store) AddStore(ownerID int64, name string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.st.nextShopID
	s.st.nextShopID++
	s.st.shops[id] = shop{ID: id, OwnerID: ownerID, Name: name}
	return id
}

// ---- products -------------------------------------------------------------

func (s *Store) List(_ context.Context, f product.Filter) ([]product.Product, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	matched := make([]product.Product, 0, len(s.st.products))
	for _, p := range s.st.products {
		if f.StoreID != 0 && p.StoreID != f.StoreID {
			continue
		}
		if f.ActiveOnly && !p.IsActive {
			continue
		}
		matched = append(matched, p)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	return page(matched, f.Page, f.Limit), len(matched), nil
}

func (s *Store) GetByID(_ context.Context, id int64) (product.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.st.products[id]
	if !ok {
		return product.Product{}, product.ErrNotFound
	}
	return p, nil
}

func (s *Store) ListByIDs(_ context.Context, ids []int64) ([]product.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[int64]bool, len(ids))
	out := make([]product.Product, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if p, ok := s.st.products[id]; ok {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Reset replaces the catalogue. Cart lines are dropped with the old products;
// order items keep their snapshot. Non-zero ids are kept.
func (s *Store) Reset(_ context.Context, products []product.Product) ([]product.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.st.products = make(map[int64]product.Product, len(products))
	s.st.lines = make(map[lineKey]cart.Line)

	out := make([]product.Product, 0, len(products))
	for _, p := range products {
		if p.ID == 0 {
			p.ID = s.st.nextProductID
		}
		if p.ID >= s.st.nextProductID {
			s.st.nextProductID = p.ID + 1
		}
		s.st.products[p.ID] = p
		out = append(out, p)
	}
	return out, nil
}

// ---- cart -----------------------------------------------------------------

func (s *Store) Items(_ context.Context, userID int64) ([]cart.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines := s.st.userLines(userID)
	sort.Slice(lines, func(i, j int) bool {
		if !lines[i].CreatedAt.Equal(lines[j].CreatedAt) {
			return lines[i].CreatedAt.Before(lines[j].CreatedAt)
		}
		return lines[i].ProductID < lines[j].ProductID
	})
	return s.st.joinProducts(lines), nil
}

func (s *Store) GetLine(_ context.Context, userID, productID int64) (cart.Line, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.st.lines[lineKey{userID, productID}]
	if !ok {
		return cart.Line{}, cart.ErrLineNotFound
	}
	return l, nil
}

func (s *Store) Save(_ context.Context, l cart.Line) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := lineKey{l.UserID, l.ProductID}
	if existing, ok := s.st.lines[key]; ok {
		l.CreatedAt = existing.CreatedAt
	}
	s.st.lines[key] = l
	return nil
}

func (s *Store) Delete(_ context.Context, userID, productID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := lineKey{userID, productID}
	if _, ok := s.st.lines[key]; !ok {
		return cart.ErrLineNotFound
	}
	delete(s.st.lines, key)
	return nil
}

func (s *Store) Clear(_ context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.st.clearCart(userID)
	return nil
}

// ---- orders ---------------------------------------------------------------

// WithinTx holds the store lock for the whole of fn, so transactions are serialised.
func (s *Store) WithinTx(ctx context.Context, fn func(order.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.st.clone()
	if err := fn(&memTx{st: &work}); err != nil {
		return err
	}
	s.st = work
	return nil
}

func (s *Store) Get(_ context.Context, id int64) (order.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.st.orders[id]
	if !ok {
		return order.Order{}, order.ErrNotFound
	}
	return copyOrder(o), nil
}

func (s *Store) ListByUser(_ context.Context, userID int64, f order.ListFilter) ([]order.Order, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	matched := make([]order.Order, 0)
	for _, o := range s.st.orders {
		if o.UserID != userID {
			continue
		}
		if f.Status != "" && o.Status != f.Status {
			continue
		}
		matched = append(matched, copyOrder(o))
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})

	return page(matched, f.Page, f.Limit), len(matched), nil
}

func (s *Store) SoldBy(_ context.Context, orderID, ownerID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.st.soldBy(orderID, ownerID), nil
}

type memTx struct {
	st *state
}

func (t *memTx) CartItems(_ context.Context, userID int64) ([]cart.Item, error) {
	lines := t.st.userLines(userID)
	sort.Slice(lines, func(i, j int) bool { return lines[i].ProductID < lines[j].ProductID })
	return t.st.joinProducts(lines), nil
}

func (t *memTx) InsertOrder(_ context.Context, o *order.Order) error {
	o.ID = t.st.nextOrderID
	t.st.nextOrderID++
	stored := *o
	stored.Items = []order.Item{}
	t.st.orders[o.ID] = stored
	return nil
}

func (t *memTx) InsertItems(_ context.Context, orderID int64, items []order.Item) ([]order.Item, error) {
	o, ok := t.st.orders[orderID]
	if !ok {
		return nil, order.ErrNotFound
	}
	out := make([]order.Item, 0, len(items))
	for _, it := range items {
		it.ID = t.st.nextItemID
		t.st.nextItemID++
		it.OrderID = orderID
		out = append(out, it)
	}
	o.Items = append(o.Items, out...)
	t.st.orders[orderID] = o

	ret := make([]order.Item, len(out))
	copy(ret, out)
	return ret, nil
}

func (t *memTx) DecrementStock(_ context.Context, productID int64, qty int) (bool, error) {
	p, ok := t.st.products[productID]
	if !ok || p.Stock < qty {
		return false, nil
	}
	p.Stock -= qty
	p.UpdatedAt = time.Now().UTC()
	t.st.products[productID] = p
	return true, nil
}

func (t *memTx) IncrementStock(_ context.Context, productID int64, qty int) error {
	p, ok := t.st.products[productID]
	if !ok {
		return nil
	}
	p.Stock += qty
	p.UpdatedAt = time.Now().UTC()
	t.st.products[productID] = p
	return nil
}

func (t *memTx) ClearCart(_ context.Context, userID int64) error {
	t.st.clearCart(userID)
	return nil
}

func (t *memTx) LockOrder(_ context.Context, id int64) (order.Order, error) {
	o, ok := t.st.orders[id]
	if !ok {
		return order.Order{}, order.ErrNotFound
	}
	return copyOrder(o), nil
}

func (t *memTx) SoldBy(_ context.Context, orderID, ownerID int64) (bool, error) {
	return t.st.soldBy(orderID, ownerID), nil
}

func (t *memTx) SetStatus(_ context.Context, id int64, status order.Status, at time.Time) error {
	o, ok := t.st.orders[id]
	if !ok {
		return order.ErrNotFound
	}
	o.Status = status
	o.UpdatedAt = at
	t.st.orders[id] = o
	return nil
}

// ---- helpers --------------------------------------------------------------

func (s *state) userLines(userID int64) []cart.Line {
	out := make([]cart.Line, 0)
	for k, l := range s.lines {
		if k.userID == userID {
			out = append(out, l)
		}
	}
	return out
}

// joinProducts drops lines whose product is gone, like an inner join would.
func (s *state) joinProducts(lines []cart.Line) []cart.Item {
	out := make([]cart.Item, 0, len(lines))
	for _, l := range lines {
		p, ok := s.products[l.ProductID]
		if !ok {
			continue
		}
		out = append(out, cart.Item{
			ProductID: p.ID,
			StoreID:   p.StoreID,
			Name:      p.Name,
			Price:     p.Price,
			Stock:     p.Stock,
			IsActive:  p.IsActive,
			Quantity:  l.Quantity,
		})
	}
	return out
}

func (s *state) soldBy(orderID, ownerID int64) bool {
	o, ok := s.orders[orderID]
	if !ok {
		return false
	}
	for _, it := range o.Items {
		p, ok := s.products[it.ProductID]
		if !ok {
			continue
		}
		if sh, ok := s.shops[p.StoreID]; ok && sh.OwnerID == ownerID {
			return true
		}
	}
	return false
}

func (s *state) clearCart(userID int64) {
	for k := range s.lines {
		if k.userID == userID {
			delete(s.lines, k)
		}
	}
}

func page[T any](items []T, pageNum, limit int) []T {
	if limit <= 0 {
		return items
	}
	if pageNum < 1 {
		pageNum = 1
	}
	start := (pageNum - 1) * limit
	if start >= len(items) {
		return []T{}
	}
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
