package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/kiprotich/tillpoint-api/internal/domain/entity"
	"github.com/kiprotich/tillpoint-api/internal/domain/repository"
	"github.com/kiprotich/tillpoint-api/pkg/apperror"
	"github.com/kiprotich/tillpoint-api/pkg/money"
)

// CartService owns the live cart for every register. Carts are in-process
// state: they exist only between the first item scan and checkout (or an
// explicit clear), and are never persisted. All access is serialized through
// one mutex; a cart version number increments on every mutation so a checkout
// that raced a clear can be detected and rejected.
type CartService struct {
	mu          sync.Mutex
	carts       map[string]*cartState
	productRepo repository.ProductRepository
}

type cartState struct {
	lines   []entity.CartLine
	version uint64
}

// CartView is the cart as returned to callers: lines, derived totals and an
// optional warning from the last mutation (out of stock, quantity clamped).
type CartView struct {
	RegisterNumber string            `json:"register_number"`
	Lines          []entity.CartLine `json:"lines"`
	SubTotal       float64           `json:"sub_total"`
	TaxTotal       float64           `json:"tax_total"`
	Discount       float64           `json:"discount"`
	Total          float64           `json:"total"`
	Warning        string            `json:"warning,omitempty"`
}

// NewCartService creates a new cart service
func NewCartService(productRepo repository.ProductRepository) *CartService {
	return &CartService{
		carts:       make(map[string]*cartState),
		productRepo: productRepo,
	}
}

func (s *CartService) cart(registerNumber string) *cartState {
	c, ok := s.carts[registerNumber]
	if !ok {
		c = &cartState{}
		s.carts[registerNumber] = c
	}
	return c
}

// AddItem puts quantity units of a product into the register's cart. An
// already-present product has its line quantity increased instead of a second
// line appended. A product with no stock leaves the cart untouched and only
// raises a warning; a request beyond available stock is clamped to it.
func (s *CartService) AddItem(ctx context.Context, registerNumber string, productID uuid.UUID, quantity int) (*CartView, error) {
	if quantity < 1 {
		quantity = 1
	}

	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cart := s.cart(registerNumber)

	if product.Stock <= 0 {
		return s.view(registerNumber, cart, fmt.Sprintf("%s is out of stock", product.Name)), nil
	}

	var warning string
	idx := -1
	for i := range cart.lines {
		if cart.lines[i].ProductID == product.ID {
			idx = i
			break
		}
	}

	if idx >= 0 {
		want := cart.lines[idx].Quantity + quantity
		if want > product.Stock {
			want = product.Stock
			warning = fmt.Sprintf("Only %d of %s available; quantity adjusted", product.Stock, product.Name)
		}
		cart.lines[idx].Quantity = want
	} else {
		if quantity > product.Stock {
			quantity = product.Stock
			warning = fmt.Sprintf("Only %d of %s available; quantity adjusted", product.Stock, product.Name)
		}
		cart.lines = append(cart.lines, entity.CartLine{
			ProductID:   product.ID,
			ProductName: product.Name,
			UnitPrice:   product.SellingPrice,
			Quantity:    quantity,
			TaxRate:     product.TaxRate,
		})
	}

	cart.version++
	return s.view(registerNumber, cart, warning), nil
}

// UpdateQuantity sets a line's quantity. Zero or negative removes the line;
// more than the product's stock clamps to the stock ceiling with a warning.
func (s *CartService) UpdateQuantity(ctx context.Context, registerNumber string, lineIndex, quantity int) (*CartView, error) {
	s.mu.Lock()
	cart := s.cart(registerNumber)
	if lineIndex < 0 || lineIndex >= len(cart.lines) {
		s.mu.Unlock()
		return nil, apperror.NewBadRequestError("Invalid cart line")
	}

	if quantity <= 0 {
		cart.lines = append(cart.lines[:lineIndex], cart.lines[lineIndex+1:]...)
		cart.version++
		view := s.view(registerNumber, cart, "")
		s.mu.Unlock()
		return view, nil
	}

	productID := cart.lines[lineIndex].ProductID
	s.mu.Unlock()

	// Current stock, not whatever it was when the line was created
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cart = s.cart(registerNumber)
	if lineIndex >= len(cart.lines) || cart.lines[lineIndex].ProductID != productID {
		return nil, apperror.NewBadRequestError("Invalid cart line")
	}

	var warning string
	if quantity > product.Stock {
		quantity = product.Stock
		warning = fmt.Sprintf("Only %d of %s available; quantity adjusted", product.Stock, product.Name)
	}
	if quantity <= 0 {
		cart.lines = append(cart.lines[:lineIndex], cart.lines[lineIndex+1:]...)
	} else {
		cart.lines[lineIndex].Quantity = quantity
		if cart.lines[lineIndex].Discount > cart.lines[lineIndex].TotalPrice() {
			cart.lines[lineIndex].Discount = cart.lines[lineIndex].TotalPrice()
		}
	}

	cart.version++
	return s.view(registerNumber, cart, warning), nil
}

// RemoveItem deletes a line from the cart.
func (s *CartService) RemoveItem(registerNumber string, lineIndex int) (*CartView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart := s.cart(registerNumber)
	if lineIndex < 0 || lineIndex >= len(cart.lines) {
		return nil, apperror.NewBadRequestError("Invalid cart line")
	}

	cart.lines = append(cart.lines[:lineIndex], cart.lines[lineIndex+1:]...)
	cart.version++
	return s.view(registerNumber, cart, ""), nil
}

// SetLineDiscount applies a discount to one line, capped at the line total.
func (s *CartService) SetLineDiscount(registerNumber string, lineIndex int, discount int64) (*CartView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart := s.cart(registerNumber)
	if lineIndex < 0 || lineIndex >= len(cart.lines) {
		return nil, apperror.NewBadRequestError("Invalid cart line")
	}
	if discount < 0 || discount > cart.lines[lineIndex].TotalPrice() {
		return nil, apperror.NewBadRequestError("Discount must be between zero and the line total")
	}

	cart.lines[lineIndex].Discount = discount
	cart.version++
	return s.view(registerNumber, cart, ""), nil
}

// View returns the current cart with freshly derived totals.
func (s *CartService) View(registerNumber string) *CartView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view(registerNumber, s.cart(registerNumber), "")
}

// Clear empties the register's cart.
func (s *CartService) Clear(registerNumber string) *CartView {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart := s.cart(registerNumber)
	cart.lines = nil
	cart.version++
	return s.view(registerNumber, cart, "")
}

// Snapshot takes a value copy of the cart for checkout. Later cart mutations
// cannot touch the returned lines.
func (s *CartService) Snapshot(registerNumber string) *entity.CartSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart := s.cart(registerNumber)
	lines := make([]entity.CartLine, len(cart.lines))
	copy(lines, cart.lines)

	return &entity.CartSnapshot{
		RegisterNumber: registerNumber,
		Lines:          lines,
		Totals:         money.Calculate(entity.MoneyLines(lines)),
		Version:        cart.version,
	}
}

// CompleteAndClear empties the cart if, and only if, it has not mutated since
// the snapshot at version was taken. A false return means the completion was
// stale (the cashier cleared or changed the cart mid-checkout) and nothing
// was touched.
func (s *CartService) CompleteAndClear(registerNumber string, version uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart := s.cart(registerNumber)
	if cart.version != version {
		return false
	}
	cart.lines = nil
	cart.version++
	return true
}

// Version returns the current cart version for staleness checks.
func (s *CartService) Version(registerNumber string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart(registerNumber).version
}

// view derives totals from the line list. Caller holds the lock.
func (s *CartService) view(registerNumber string, cart *cartState, warning string) *CartView {
	totals := money.Calculate(entity.MoneyLines(cart.lines))
	lines := make([]entity.CartLine, len(cart.lines))
	copy(lines, cart.lines)

	return &CartView{
		RegisterNumber: registerNumber,
		Lines:          lines,
		SubTotal:       money.ToDecimal(totals.Subtotal),
		TaxTotal:       money.ToDecimal(totals.TaxTotal),
		Discount:       money.ToDecimal(totals.Discount),
		Total:          money.ToDecimal(totals.Total),
		Warning:        warning,
	}
}
