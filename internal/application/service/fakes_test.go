package service

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/kiprotich/tillpoint-api/internal/domain/entity"
	"github.com/kiprotich/tillpoint-api/internal/domain/enum"
	"github.com/kiprotich/tillpoint-api/internal/domain/repository"
	"github.com/kiprotich/tillpoint-api/internal/infrastructure/gateway"
	"github.com/kiprotich/tillpoint-api/pkg/pagination"
)

// In-memory fakes for the repository interfaces. Each fake keeps just enough
// behavior for the services under test; no SQL semantics are simulated beyond
// what the services rely on.

type fakeProductRepo struct {
	mu       sync.Mutex
	products map[uuid.UUID]*entity.Product
}

func newFakeProductRepo(products ...*entity.Product) *fakeProductRepo {
	r := &fakeProductRepo{products: make(map[uuid.UUID]*entity.Product)}
	for _, p := range products {
		if p.ID == uuid.Nil {
			p.ID = uuid.New()
		}
		r.products[p.ID] = p
	}
	return r
}

func (r *fakeProductRepo) Create(_ context.Context, p *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.products[p.ID] = p
	return nil
}

func (r *fakeProductRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProductRepo) GetByCode(_ context.Context, code string) (*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.products {
		if p.Code == code {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeProductRepo) Update(_ context.Context, p *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *p
	r.products[p.ID] = &cp
	return nil
}

func (r *fakeProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.products, id)
	return nil
}

func (r *fakeProductRepo) List(_ context.Context, _ *repository.ProductFilterParams) ([]entity.Product, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entity.Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *fakeProductRepo) Search(_ context.Context, query string, limit int) ([]entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Product
	for _, p := range r.products {
		if strings.Contains(strings.ToLower(p.Name), strings.ToLower(query)) || strings.EqualFold(p.Code, query) {
			out = append(out, *p)
		}
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (r *fakeProductRepo) GetLowStock(_ context.Context) ([]entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Product
	for _, p := range r.products {
		if p.Stock <= p.StockAlert {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) AtomicDecrementBatch(_ context.Context, decrements map[uuid.UUID]int) ([]uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var failed []uuid.UUID
	for id, qty := range decrements {
		p, ok := r.products[id]
		if !ok || p.Stock < qty {
			failed = append(failed, id)
		}
	}
	if len(failed) > 0 {
		return failed, nil
	}
	for id, qty := range decrements {
		r.products[id].Stock -= qty
	}
	return nil, nil
}

func (r *fakeProductRepo) AtomicIncrementBatch(_ context.Context, increments map[uuid.UUID]int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, qty := range increments {
		if p, ok := r.products[id]; ok {
			p.Stock += qty
		}
	}
	return nil
}

func (r *fakeProductRepo) stock(id uuid.UUID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.products[id].Stock
}

type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*entity.RegisterSession
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[uuid.UUID]*entity.RegisterSession)}
}

func (r *fakeSessionRepo) Create(_ context.Context, s *entity.RegisterSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	cp := *s
	r.sessions[s.ID] = &cp
	return nil
}

func (r *fakeSessionRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.RegisterSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (r *fakeSessionRepo) GetActiveByRegister(_ context.Context, registerNumber string) (*entity.RegisterSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.sessions {
		if s.RegisterNumber == registerNumber && s.Status == enum.SessionStatusOpen {
			cp := *s
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeSessionRepo) Update(_ context.Context, s *entity.RegisterSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *s
	r.sessions[s.ID] = &cp
	return nil
}

func (r *fakeSessionRepo) List(_ context.Context, _ *repository.SessionFilterParams) ([]entity.RegisterSession, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entity.RegisterSession, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, *s)
	}
	return out, int64(len(out)), nil
}

type fakeTxnRepo struct {
	mu        sync.Mutex
	txns      map[uuid.UUID]*entity.SaleTransaction
	createErr error
}

func newFakeTxnRepo() *fakeTxnRepo {
	return &fakeTxnRepo{txns: make(map[uuid.UUID]*entity.SaleTransaction)}
}

func (r *fakeTxnRepo) Create(_ context.Context, t *entity.SaleTransaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	cp := *t
	r.txns[t.ID] = &cp
	return nil
}

func (r *fakeTxnRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.SaleTransaction, error) {
	return r.GetWithItems(ctx, id)
}

func (r *fakeTxnRepo) GetWithItems(_ context.Context, id uuid.UUID) (*entity.SaleTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.txns[id]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (r *fakeTxnRepo) Update(_ context.Context, t *entity.SaleTransaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *t
	r.txns[t.ID] = &cp
	return nil
}

func (r *fakeTxnRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.txns, id)
	return nil
}

func (r *fakeTxnRepo) ListBySession(_ context.Context, sessionID uuid.UUID, _ *pagination.PaginationParams) ([]entity.SaleTransaction, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.SaleTransaction
	for _, t := range r.txns {
		if t.SessionID == sessionID {
			out = append(out, *t)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeTxnRepo) SumCashBySession(_ context.Context, sessionID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var sum int64
	for _, t := range r.txns {
		if t.SessionID == sessionID && t.PaymentMethod == enum.PaymentMethodCash && t.Status == enum.TransactionStatusCompleted {
			sum += t.Total
		}
	}
	return sum, nil
}

func (r *fakeTxnRepo) SummarizeBySession(_ context.Context, sessionID uuid.UUID) ([]repository.MethodSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	byMethod := make(map[enum.PaymentMethod]*repository.MethodSummary)
	for _, t := range r.txns {
		if t.SessionID != sessionID || t.Status != enum.TransactionStatusCompleted {
			continue
		}
		m, ok := byMethod[t.PaymentMethod]
		if !ok {
			m = &repository.MethodSummary{PaymentMethod: t.PaymentMethod}
			byMethod[t.PaymentMethod] = m
		}
		m.Count++
		m.Total += t.Total
	}
	out := make([]repository.MethodSummary, 0, len(byMethod))
	for _, m := range byMethod {
		out = append(out, *m)
	}
	return out, nil
}

func (r *fakeTxnRepo) ListOffline(_ context.Context, _ *pagination.PaginationParams) ([]entity.SaleTransaction, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.SaleTransaction
	for _, t := range r.txns {
		if t.Offline {
			out = append(out, *t)
		}
	}
	return out, int64(len(out)), nil
}

type fakeUserRepo struct {
	users map[uuid.UUID]*entity.User
}

func newFakeUserRepo(users ...*entity.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[uuid.UUID]*entity.User)}
	for _, u := range users {
		if u.ID == uuid.Nil {
			u.ID = uuid.New()
		}
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) Create(_ context.Context, u *entity.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	return u, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

// fakeGateway stands in for the upstream mirror. err is returned as-is (for
// the auth-rejection path); offline reports unreachable endpoints. onSubmit
// runs before the result is returned, standing in for work that happens while
// the upstream call is in flight.
type fakeGateway struct {
	mu        sync.Mutex
	offline   bool
	err       error
	onSubmit  func()
	submitted []*entity.SaleTransaction
}

func (g *fakeGateway) SubmitTransaction(_ context.Context, _ string, txn *entity.SaleTransaction) (*gateway.SubmitResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.onSubmit != nil {
		g.onSubmit()
	}
	if g.err != nil {
		return nil, g.err
	}
	if g.offline {
		return &gateway.SubmitResult{Offline: true}, nil
	}
	g.submitted = append(g.submitted, txn)
	return &gateway.SubmitResult{Endpoint: "primary"}, nil
}

func (g *fakeGateway) Available() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return !g.offline && g.err == nil
}
