package service

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	models "github.com/Furniture-Final-Project/Furniture-sub000/model"
	"github.com/Furniture-Final-Project/Furniture-sub000/payment"
	"github.com/Furniture-Final-Project/Furniture-sub000/store"
)

// ---- in-memory collaborators ----

type memCatalog struct {
	mu         sync.Mutex
	products   map[string]*models.Product
	failAdjust string // decrements of this product fail
}

func (c *memCatalog) CreateProduct(p *models.Product) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	cp := *p
	c.products[p.ID] = &cp
	return nil
}

func (c *memCatalog) UpdateProduct(p *models.Product) error { return c.CreateProduct(p) }

func (c *memCatalog) DeleteProduct(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.products, id)
	return nil
}

func (c *memCatalog) GetProduct(id string) (*models.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.products[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (c *memCatalog) ListProducts() ([]models.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := []models.Product{}
	for _, p := range c.products {
		out = append(out, *p)
	}
	return out, nil
}

func (c *memCatalog) AdjustStock(id string, delta int) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if id == c.failAdjust && delta < 0 {
		return 0, store.ErrInsufficientStock
	}
	p, ok := c.products[id]
	if !ok {
		return 0, store.ErrNotFound
	}
	if p.Stock+delta < 0 {
		return 0, store.ErrInsufficientStock
	}
	p.Stock += delta
	return p.Stock, nil
}

func (c *memCatalog) stock(id string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.products[id].Stock
}

type memCart struct {
	mu        sync.Mutex
	lines     map[int64]map[string]int
	listCalls int
}

func (c *memCart) ListLines(userID int64) ([]models.CartLine, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listCalls++
	out := []models.CartLine{}
	for pid, qty := range c.lines[userID] {
		out = append(out, models.CartLine{UserID: userID, ProductID: pid, Quantity: qty})
	}
	return out, nil
}

func (c *memCart) UpsertLine(userID int64, productID string, qty int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.lines[userID] == nil {
		c.lines[userID] = map[string]int{}
	}
	c.lines[userID][productID] += qty
	return nil
}

func (c *memCart) DeleteLine(userID int64, productID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.lines[userID][productID]; !ok {
		return store.ErrNotFound
	}
	delete(c.lines[userID], productID)
	return nil
}

func (c *memCart) size(userID int64) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lines[userID])
}

type memUsers struct {
	users map[int64]*models.User
}

func (u *memUsers) CreateUser(user *models.User) (int64, error) {
	id := int64(len(u.users) + 1)
	cp := *user
	cp.ID = id
	u.users[id] = &cp
	return id, nil
}

func (u *memUsers) GetUser(id int64) (*models.User, error) {
	user, ok := u.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return user, nil
}

type memOrders struct {
	mu        sync.Mutex
	orders    map[int64]*models.Order
	nextID    int64
	appendErr error
}

func (o *memOrders) AppendOrder(draft *models.Order) (int64, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.appendErr != nil {
		return 0, o.appendErr
	}
	if len(draft.Items) == 0 {
		return 0, fmt.Errorf("%w: order has no items", store.ErrInvalidOrder)
	}
	if draft.Total <= 0 {
		return 0, fmt.Errorf("%w: total must be positive", store.ErrInvalidOrder)
	}
	o.nextID++
	cp := *draft
	cp.ID = o.nextID
	cp.Items = make(map[string]int, len(draft.Items))
	for pid, qty := range draft.Items {
		cp.Items[pid] = qty
	}
	o.orders[cp.ID] = &cp
	draft.ID = cp.ID
	return cp.ID, nil
}

func (o *memOrders) GetOrder(id int64) (*models.Order, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	order, ok := o.orders[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *order
	cp.Items = make(map[string]int, len(order.Items))
	for pid, qty := range order.Items {
		cp.Items[pid] = qty
	}
	return &cp, nil
}

func (o *memOrders) ListOrders(userID int64) ([]models.Order, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := []models.Order{}
	for _, order := range o.orders {
		if order.UserID == userID {
			out = append(out, *order)
		}
	}
	return out, nil
}

func (o *memOrders) UpdateOrderStatus(id int64, status models.OrderStatus) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	order, ok := o.orders[id]
	if !ok {
		return store.ErrNotFound
	}
	order.Status = status
	return nil
}

func (o *memOrders) count() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.orders)
}

type charge struct {
	userID int64
	amount float64
}

type fakeGateway struct {
	mu      sync.Mutex
	decline bool
	err     error
	charges []charge
}

func (g *fakeGateway) Charge(userID int64, amount float64, method string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.err != nil {
		return false, g.err
	}
	if g.decline {
		return false, nil
	}
	g.charges = append(g.charges, charge{userID: userID, amount: amount})
	return true, nil
}

func (g *fakeGateway) chargeCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.charges)
}

// ---- test environment ----

type env struct {
	svc     *Service
	catalog *memCatalog
	cart    *memCart
	users   *memUsers
	orders  *memOrders
	gateway *fakeGateway
}

func newEnv() *env {
	e := &env{
		catalog: &memCatalog{products: map[string]*models.Product{
			"chair-0": {ID: "chair-0", Category: models.CategoryChair, Price: 100.0, DiscountPercent: 0, Stock: 3},
			"SF-3003": {ID: "SF-3003", Category: models.CategorySofa, Price: 1200.0, DiscountPercent: 10, Stock: 5},
			"BS-4004": {ID: "BS-4004", Category: models.CategoryBookShelf, Price: 110.0, DiscountPercent: 50, Stock: 0},
		}},
		cart: &memCart{lines: map[int64]map[string]int{}},
		users: &memUsers{users: map[int64]*models.User{
			1: {ID: 1, Name: "Dana", Email: "dana@example.com", Address: "12 Oak Lane", Role: models.RoleUser},
			2: {ID: 2, Name: "Omri", Email: "omri@example.com", Address: "3 Elm Street", Role: models.RoleUser},
		}},
		orders:  &memOrders{orders: map[int64]*models.Order{}},
		gateway: &fakeGateway{},
	}
	e.svc = NewService(Deps{
		Cart:     e.cart,
		Catalog:  e.catalog,
		Users:    e.users,
		Orders:   e.orders,
		Payments: payment.NewSelector(e.gateway),
		Now:      func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) },
	})
	return e
}

const goodAddress = "12 Oak Lane, Springfield"

func fill(e *env, userID int64, items map[string]int) {
	for pid, qty := range items {
		_ = e.cart.UpsertLine(userID, pid, qty)
	}
}

// ---- scenarios ----

func TestCheckoutSingleChairNoDiscount(t *testing.T) {
	e := newEnv()
	fill(e, 1, map[string]int{"chair-0": 2})

	res, err := e.svc.Checkout(1, goodAddress, payment.MethodCreditCard)
	require.NoError(t, err)
	assert.Equal(t, 236.0, res.Total)
	assert.Equal(t, "Order placed successfully.", res.Message)
	assert.Equal(t, 1, e.catalog.stock("chair-0"))
	assert.Equal(t, 0, e.cart.size(1))

	order, err := e.orders.GetOrder(res.OrderID)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"chair-0": 2}, order.Items)
	assert.Equal(t, 236.0, order.Total)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, "dana@example.com", order.UserEmail)
}

func TestCheckoutMixedDiscounts(t *testing.T) {
	e := newEnv()
	fill(e, 1, map[string]int{"chair-0": 2, "SF-3003": 1})

	res, err := e.svc.Checkout(1, goodAddress, payment.MethodPayPal)
	require.NoError(t, err)
	assert.Equal(t, 1510.4, res.Total)

	require.Equal(t, 1, e.gateway.chargeCount())
	assert.Equal(t, 1510.4, e.gateway.charges[0].amount)
	assert.Equal(t, 1, e.catalog.stock("chair-0"))
	assert.Equal(t, 4, e.catalog.stock("SF-3003"))
}

func TestCheckoutOutOfStock(t *testing.T) {
	e := newEnv()
	fill(e, 1, map[string]int{"BS-4004": 1})

	_, err := e.svc.Checkout(1, goodAddress, payment.MethodCreditCard)
	var oos *OutOfStockError
	require.ErrorAs(t, err, &oos)
	assert.Equal(t, "BS-4004", oos.ProductID)
	assert.Equal(t, 0, oos.Available)

	assert.Equal(t, 0, e.orders.count())
	assert.Equal(t, 0, e.gateway.chargeCount())
	assert.Equal(t, 0, e.catalog.stock("BS-4004"))
	assert.Equal(t, 1, e.cart.size(1))
}

func TestCheckoutInvalidAddress(t *testing.T) {
	e := newEnv()
	fill(e, 1, map[string]int{"chair-0": 1})
	before := e.cart.listCalls

	_, err := e.svc.Checkout(1, "abc", payment.MethodCreditCard)
	require.ErrorIs(t, err, ErrInvalidAddress)

	// the address check precedes any store access
	assert.Equal(t, before, e.cart.listCalls)
	assert.Equal(t, 0, e.orders.count())
	assert.Equal(t, 3, e.catalog.stock("chair-0"))
}

func TestCheckoutAddressTrimmed(t *testing.T) {
	e := newEnv()
	fill(e, 1, map[string]int{"chair-0": 1})

	_, err := e.svc.Checkout(1, "  ab  ", payment.MethodCreditCard)
	require.ErrorIs(t, err, ErrInvalidAddress)
}

func TestCheckoutPaymentDeclined(t *testing.T) {
	e := newEnv()
	e.gateway.decline = true
	fill(e, 1, map[string]int{"chair-0": 1})

	_, err := e.svc.Checkout(1, goodAddress, payment.MethodCreditCard)
	require.ErrorIs(t, err, ErrPaymentDeclined)

	assert.Equal(t, 0, e.orders.count())
	assert.Equal(t, 3, e.catalog.stock("chair-0"))
	assert.Equal(t, 1, e.cart.size(1))
}

func TestCheckoutPaymentErrorTreatedAsDeclined(t *testing.T) {
	e := newEnv()
	e.gateway.err = errors.New("gateway timeout")
	fill(e, 1, map[string]int{"chair-0": 1})

	_, err := e.svc.Checkout(1, goodAddress, payment.MethodCreditCard)
	require.ErrorIs(t, err, ErrPaymentDeclined)
	assert.Equal(t, 0, e.orders.count())
}

func TestCheckoutConcurrentOverselling(t *testing.T) {
	e := newEnv()
	e.catalog.products["chair-0"].Stock = 1
	fill(e, 1, map[string]int{"chair-0": 1})
	fill(e, 2, map[string]int{"chair-0": 1})

	type outcome struct {
		res CheckoutResult
		err error
	}
	results := make(chan outcome, 2)
	var wg sync.WaitGroup
	for _, uid := range []int64{1, 2} {
		wg.Add(1)
		go func(uid int64) {
			defer wg.Done()
			res, err := e.svc.Checkout(uid, goodAddress, payment.MethodCreditCard)
			results <- outcome{res: res, err: err}
		}(uid)
	}
	wg.Wait()
	close(results)

	var successes, outOfStock int
	for o := range results {
		if o.err == nil {
			successes++
			continue
		}
		var oos *OutOfStockError
		require.ErrorAs(t, o.err, &oos)
		outOfStock++
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, outOfStock)
	assert.Equal(t, 0, e.catalog.stock("chair-0"))
	// the loser was never charged
	assert.Equal(t, 1, e.gateway.chargeCount())
	assert.Equal(t, 1, e.orders.count())
}

// ---- failure ordering and remaining edges ----

func TestCheckoutCartEmpty(t *testing.T) {
	e := newEnv()
	_, err := e.svc.Checkout(1, goodAddress, payment.MethodCreditCard)
	require.ErrorIs(t, err, ErrCartEmpty)
}

func TestCheckoutProductMissing(t *testing.T) {
	e := newEnv()
	fill(e, 1, map[string]int{"gone-1": 1})

	_, err := e.svc.Checkout(1, goodAddress, payment.MethodCreditCard)
	var missing *ProductMissingError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "gone-1", missing.ProductID)
}

func TestCheckoutUserMissing(t *testing.T) {
	e := newEnv()
	fill(e, 99, map[string]int{"chair-0": 1})

	_, err := e.svc.Checkout(99, goodAddress, payment.MethodCreditCard)
	require.ErrorIs(t, err, ErrUserMissing)
	assert.Equal(t, 0, e.gateway.chargeCount())
}

func TestCheckoutInvalidPaymentMethod(t *testing.T) {
	e := newEnv()
	fill(e, 1, map[string]int{"chair-0": 1})

	_, err := e.svc.Checkout(1, goodAddress, "cash")
	require.ErrorIs(t, err, ErrInvalidPaymentMethod)
	assert.Equal(t, 0, e.gateway.chargeCount())
	assert.Equal(t, 0, e.orders.count())
}

// the stock check outranks a missing user: failure ordering is fixed
func TestCheckoutStockCheckPrecedesUserLookup(t *testing.T) {
	e := newEnv()
	fill(e, 99, map[string]int{"BS-4004": 1})

	_, err := e.svc.Checkout(99, goodAddress, payment.MethodCreditCard)
	var oos *OutOfStockError
	require.ErrorAs(t, err, &oos)
}

func TestCheckoutOrderCreationFailed(t *testing.T) {
	e := newEnv()
	e.orders.appendErr = fmt.Errorf("%w: unknown user 1", store.ErrInvalidOrder)
	fill(e, 1, map[string]int{"chair-0": 1})

	_, err := e.svc.Checkout(1, goodAddress, payment.MethodCreditCard)
	var creation *OrderCreationError
	require.ErrorAs(t, err, &creation)
	assert.Contains(t, creation.Detail, "unknown user")

	// payment went through before the append failed; stock and cart stay put
	assert.Equal(t, 1, e.gateway.chargeCount())
	assert.Equal(t, 3, e.catalog.stock("chair-0"))
	assert.Equal(t, 1, e.cart.size(1))
}

func TestCheckoutCompensatesAdjustUnderflow(t *testing.T) {
	e := newEnv()
	// SF-3003 sorts after chair-0, so chair-0 is decremented first and must
	// be restored when SF-3003 underflows.
	e.catalog.failAdjust = "SF-3003"
	fill(e, 1, map[string]int{"chair-0": 2, "SF-3003": 1})

	_, err := e.svc.Checkout(1, goodAddress, payment.MethodCreditCard)
	var adj *InventoryAdjustError
	require.ErrorAs(t, err, &adj)
	assert.Equal(t, "SF-3003", adj.ProductID)

	assert.Equal(t, 3, e.catalog.stock("chair-0"))
	assert.Equal(t, 5, e.catalog.stock("SF-3003"))

	require.Equal(t, 1, e.orders.count())
	order, err := e.orders.GetOrder(1)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCancelled, order.Status)
}

func TestCheckoutSnapshotIgnoresLaterCartChanges(t *testing.T) {
	e := newEnv()
	fill(e, 1, map[string]int{"chair-0": 2})

	res, err := e.svc.Checkout(1, goodAddress, payment.MethodCreditCard)
	require.NoError(t, err)

	order, err := e.orders.GetOrder(res.OrderID)
	require.NoError(t, err)
	// mutating the returned items must not leak back into the stored order
	order.Items["chair-0"] = 99
	again, err := e.orders.GetOrder(res.OrderID)
	require.NoError(t, err)
	assert.Equal(t, 2, again.Items["chair-0"])
}
