package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Furniture-Final-Project/Furniture-sub000/logging"
	models "github.com/Furniture-Final-Project/Furniture-sub000/model"
	"github.com/Furniture-Final-Project/Furniture-sub000/payment"
	"github.com/Furniture-Final-Project/Furniture-sub000/store"
)

// DefaultAddressMinLength is the minimum trimmed length of a shipping address.
const DefaultAddressMinLength = 5

// Deps is the explicit collaborator record the orchestrator runs against.
// Tests substitute fakes per field; nothing here is package-level.
type Deps struct {
	Cart     store.CartStore
	Catalog  store.CatalogStore
	Users    store.UserStore
	Orders   store.OrderStore
	Payments payment.Selector

	// Now defaults to time.Now in UTC.
	Now func() time.Time
	// TaxRatePercent defaults to DefaultTaxRatePercent.
	TaxRatePercent float64
	// AddressMinLength defaults to DefaultAddressMinLength.
	AddressMinLength int
}

type Service struct {
	cart     store.CartStore
	catalog  store.CatalogStore
	users    store.UserStore
	orders   store.OrderStore
	payments payment.Selector

	now     func() time.Time
	taxRate float64
	addrMin int

	// per-product mutexes serializing the stock-check-to-adjust window of
	// concurrent checkouts. Keys are product ids.
	locks sync.Map
}

func NewService(deps Deps) *Service {
	s := &Service{
		cart:     deps.Cart,
		catalog:  deps.Catalog,
		users:    deps.Users,
		orders:   deps.Orders,
		payments: deps.Payments,
		now:      deps.Now,
		taxRate:  deps.TaxRatePercent,
		addrMin:  deps.AddressMinLength,
	}
	if s.now == nil {
		s.now = func() time.Time { return time.Now().UTC() }
	}
	if s.taxRate == 0 {
		s.taxRate = DefaultTaxRatePercent
	}
	if s.addrMin == 0 {
		s.addrMin = DefaultAddressMinLength
	}
	return s
}

// CheckoutResult is returned for a successfully placed order.
type CheckoutResult struct {
	OrderID int64   `json:"order_id"`
	Total   float64 `json:"total_price"`
	Message string  `json:"message"`
}

// Checkout turns the user's cart into a paid, recorded order. The failure
// reported is always the first condition that holds in the order below;
// callers rely on that ordering.
func (s *Service) Checkout(userID int64, shippingAddress, paymentMethod string) (CheckoutResult, error) {
	start := time.Now()

	if len(strings.TrimSpace(shippingAddress)) < s.addrMin {
		return CheckoutResult{}, ErrInvalidAddress
	}

	lines, err := s.cart.ListLines(userID)
	if err != nil {
		return CheckoutResult{}, fmt.Errorf("list cart: %w", err)
	}
	if len(lines) == 0 {
		return CheckoutResult{}, ErrCartEmpty
	}
	// Snapshot once; later cart mutations are invisible to this checkout.
	desired := make(map[string]int, len(lines))
	for _, l := range lines {
		desired[l.ProductID] += l.Quantity
	}
	ids := sortedIDs(desired)

	// The stock snapshot, payment, order append and stock adjustment must
	// not interleave with another checkout touching the same products.
	// Locks are taken in ascending id order so overlapping checkouts cannot
	// deadlock.
	unlock := s.lockProducts(ids)
	defer unlock()

	var total float64
	for _, pid := range ids {
		p, err := s.catalog.GetProduct(pid)
		if errors.Is(err, store.ErrNotFound) {
			return CheckoutResult{}, &ProductMissingError{ProductID: pid}
		}
		if err != nil {
			return CheckoutResult{}, fmt.Errorf("get product %s: %w", pid, err)
		}
		if p.Stock < desired[pid] {
			return CheckoutResult{}, &OutOfStockError{ProductID: pid, Available: p.Stock}
		}
		unit := FinalUnitPrice(p.Price, p.DiscountPercent, s.taxRate)
		total += LinePrice(unit, desired[pid])
	}
	total = round1(total)

	user, err := s.users.GetUser(userID)
	if errors.Is(err, store.ErrNotFound) {
		return CheckoutResult{}, ErrUserMissing
	}
	if err != nil {
		return CheckoutResult{}, fmt.Errorf("get user %d: %w", userID, err)
	}

	strategy := s.payments.Select(paymentMethod)
	if strategy == nil {
		return CheckoutResult{}, ErrInvalidPaymentMethod
	}
	ok, err := strategy.ProcessPayment(userID, total)
	if err != nil || !ok {
		if err != nil {
			logging.Log(logging.Fields{
				Component: "checkout", UserID: userID, Step: "payment",
				Status: "error", Message: err.Error(),
			})
		}
		return CheckoutResult{}, ErrPaymentDeclined
	}

	draft := buildDraft(user, userID, shippingAddress, desired, total, s.now())
	orderID, err := s.orders.AppendOrder(draft)
	if err != nil {
		// Payment already went through; hand the money back or make the
		// debt visible to operators.
		s.refund(strategy, userID, total, 0)
		return CheckoutResult{}, &OrderCreationError{Detail: err.Error()}
	}

	if err := s.adjustInventory(strategy, orderID, userID, desired, ids, total); err != nil {
		return CheckoutResult{}, err
	}

	for _, pid := range ids {
		if err := s.cart.DeleteLine(userID, pid); err != nil && !errors.Is(err, store.ErrNotFound) {
			// The order stands; a stale cart line is an operator concern,
			// not a checkout failure.
			logging.Log(logging.Fields{
				Component: "checkout", UserID: userID, OrderID: orderID, ProductID: pid,
				Step: "cart_teardown", Status: "error", Message: err.Error(),
			})
		}
	}

	logging.Log(logging.Fields{
		Component: "checkout", UserID: userID, OrderID: orderID,
		Step: "done", Status: "success", DurationMS: time.Since(start).Milliseconds(),
	})
	return CheckoutResult{OrderID: orderID, Total: total, Message: "Order placed successfully."}, nil
}

// adjustInventory decrements stock for every ordered item. An underflow here
// means the lock discipline was bypassed (an admin edit, a second process);
// the just-appended order is cancelled, prior decrements reversed and the
// charge refunded before the failure is surfaced.
func (s *Service) adjustInventory(strategy payment.Strategy, orderID, userID int64, desired map[string]int, ids []string, total float64) error {
	for i, pid := range ids {
		if _, err := s.catalog.AdjustStock(pid, -desired[pid]); err != nil {
			for j := i - 1; j >= 0; j-- {
				if _, err2 := s.catalog.AdjustStock(ids[j], desired[ids[j]]); err2 != nil {
					logging.Log(logging.Fields{
						Component: "checkout", UserID: userID, OrderID: orderID, ProductID: ids[j],
						Step: "compensation", Status: "error", Message: err2.Error(),
					})
				}
			}
			if err2 := s.orders.UpdateOrderStatus(orderID, models.OrderStatusCancelled); err2 != nil {
				logging.Log(logging.Fields{
					Component: "checkout", UserID: userID, OrderID: orderID,
					Step: "compensation", Status: "error", Message: err2.Error(),
				})
			}
			s.refund(strategy, userID, total, orderID)
			logging.Log(logging.Fields{
				Component: "checkout", UserID: userID, OrderID: orderID, ProductID: pid,
				Step: "adjust_stock", Status: "compensated", Message: err.Error(),
			})
			return &InventoryAdjustError{ProductID: pid}
		}
	}
	return nil
}

// refund hands the charge back through the strategy when it can, and
// otherwise leaves a loud trail for operators.
func (s *Service) refund(strategy payment.Strategy, userID int64, amount float64, orderID int64) {
	if r, ok := strategy.(payment.Refunder); ok {
		if err := r.Refund(userID, amount); err == nil {
			return
		}
	}
	logging.Log(logging.Fields{
		Component: "checkout", UserID: userID, OrderID: orderID,
		Step: "refund", Status: "manual_action_required",
		Message: fmt.Sprintf("refund %.1f to user %d", amount, userID),
	})
}

func buildDraft(user *models.User, userID int64, shippingAddress string, desired map[string]int, total float64, now time.Time) *models.Order {
	items := make(map[string]int, len(desired))
	for pid, qty := range desired {
		items[pid] = qty
	}
	return &models.Order{
		UserID:          userID,
		UserEmail:       user.Email,
		ShippingAddress: shippingAddress,
		Items:           items,
		Total:           total,
		Status:          models.OrderStatusPending,
		CreatedAt:       now,
	}
}

func (s *Service) lockProducts(ids []string) func() {
	for _, id := range ids {
		s.productLock(id).Lock()
	}
	return func() {
		for i := len(ids) - 1; i >= 0; i-- {
			s.productLock(ids[i]).Unlock()
		}
	}
}

func (s *Service) productLock(id string) *sync.Mutex {
	if v, ok := s.locks.Load(id); ok {
		return v.(*sync.Mutex)
	}
	v, _ := s.locks.LoadOrStore(id, &sync.Mutex{})
	return v.(*sync.Mutex)
}

func sortedIDs(desired map[string]int) []string {
	ids := make([]string, 0, len(desired))
	for id := range desired {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
