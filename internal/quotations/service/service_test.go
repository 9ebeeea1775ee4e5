package service

import (
	"context"
	"testing"
	"time"

	cartdomain "cotizador_backend/internal/cart/domain"
	"cotizador_backend/internal/quotations/domain"
	"cotizador_backend/internal/quotations/repository"
	"cotizador_backend/internal/quotations/transport"
	"cotizador_backend/platform/apperr"
	"cotizador_backend/platform/events"
	"cotizador_backend/platform/httpkit"
	"cotizador_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type fakeRepo struct {
	quotations map[uuid.UUID]*repository.Quotation
	items      map[uuid.UUID][]repository.QuotationItem
	failInsert int // fail this many inserts with ErrDuplicateNumber
	inserts    int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		quotations: map[uuid.UUID]*repository.Quotation{},
		items:      map[uuid.UUID][]repository.QuotationItem{},
	}
}

func (f *fakeRepo) CountCreatedInYear(_ context.Context, year int) (int, error) {
	count := 0
	for _, q := range f.quotations {
		if q.CreatedAt.Year() == year {
			count++
		}
	}
	return count, nil
}

func (f *fakeRepo) CreateWithItems(_ context.Context, q *repository.Quotation, items []repository.QuotationItem) error {
	f.inserts++
	if f.failInsert > 0 {
		f.failInsert--
		return repository.ErrDuplicateNumber
	}
	for _, existing := range f.quotations {
		if existing.Number == q.Number {
			return repository.ErrDuplicateNumber
		}
	}
	stored := *q
	f.quotations[q.ID] = &stored
	f.items[q.ID] = items
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (*repository.Quotation, error) {
	q, ok := f.quotations[id]
	if !ok {
		return nil, apperr.NotFound("quotation not found")
	}
	copied := *q
	return &copied, nil
}

func (f *fakeRepo) GetItems(_ context.Context, quotationID uuid.UUID) ([]repository.QuotationItem, error) {
	return f.items[quotationID], nil
}

func (f *fakeRepo) List(_ context.Context, params repository.ListParams) (*repository.ListResult, error) {
	var items []repository.Quotation
	for _, q := range f.quotations {
		if params.CustomerID != nil && q.CustomerID != *params.CustomerID {
			continue
		}
		if params.SalespersonID != nil && q.SalespersonID != *params.SalespersonID {
			continue
		}
		if params.State != "" && q.State != params.State {
			continue
		}
		items = append(items, *q)
	}
	return &repository.ListResult{
		Items: items, Total: len(items),
		Page: params.Page, PageSize: params.PageSize, TotalPages: 1,
	}, nil
}

func (f *fakeRepo) UpdateState(_ context.Context, id uuid.UUID, state string) error {
	q, ok := f.quotations[id]
	if !ok {
		return apperr.NotFound("quotation not found")
	}
	q.State = state
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.quotations[id]; !ok {
		return apperr.NotFound("quotation not found")
	}
	delete(f.quotations, id)
	delete(f.items, id)
	return nil
}

func (f *fakeRepo) ExpireOverdue(_ context.Context, now time.Time) (int64, error) {
	var expired int64
	for _, q := range f.quotations {
		if q.State == domain.StateSent && q.ExpiresAt.Before(now) {
			q.State = domain.StateExpired
			expired++
		}
	}
	return expired, nil
}

type fakeCartAccess struct {
	carts map[uuid.UUID]*cartdomain.Cart
}

func (f *fakeCartAccess) GetCart(_ context.Context, userID uuid.UUID) (*cartdomain.Cart, error) {
	if c, ok := f.carts[userID]; ok {
		return c, nil
	}
	return cartdomain.NewCart(userID), nil
}

func (f *fakeCartAccess) Clear(_ context.Context, userID uuid.UUID) error {
	delete(f.carts, userID)
	return nil
}

type fakeStockReader struct {
	stock map[uuid.UUID]*EquipmentStock
}

func (f *fakeStockReader) GetStock(_ context.Context, id uuid.UUID) (*EquipmentStock, error) {
	if eq, ok := f.stock[id]; ok {
		return eq, nil
	}
	return nil, apperr.NotFound("equipment not found")
}

type fakeUserDirectory struct {
	users        map[uuid.UUID]*UserInfo
	salespersons []uuid.UUID
}

func (f *fakeUserDirectory) GetUser(_ context.Context, id uuid.UUID) (*UserInfo, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, apperr.NotFound("user not found")
}

func (f *fakeUserDirectory) ActiveSalespersonIDs(_ context.Context) ([]uuid.UUID, error) {
	return f.salespersons, nil
}

type fixedConfig struct{ days int }

func (c fixedConfig) GetQuotationValidityDays() int { return c.days }

type testEnv struct {
	svc      *Service
	repo     *fakeRepo
	carts    *fakeCartAccess
	stock    *fakeStockReader
	users    *fakeUserDirectory
	customer *UserInfo
	vendor   *UserInfo
}

func newTestEnv() *testEnv {
	customer := &UserInfo{
		ID: uuid.New(), FullName: "Ana Torres", CompanyName: "Torres SA",
		Email: "ana@torres.example", Phone: "+525512345678",
		Role: httpkit.RoleCustomer, IsActive: true,
	}
	vendor := &UserInfo{
		ID: uuid.New(), FullName: "Luis Vega", Email: "luis@example",
		Role: httpkit.RoleSalesperson, IsActive: true,
	}

	repo := newFakeRepo()
	carts := &fakeCartAccess{carts: map[uuid.UUID]*cartdomain.Cart{}}
	stock := &fakeStockReader{stock: map[uuid.UUID]*EquipmentStock{}}
	users := &fakeUserDirectory{
		users:        map[uuid.UUID]*UserInfo{customer.ID: customer, vendor.ID: vendor},
		salespersons: []uuid.UUID{vendor.ID},
	}

	log := logger.New("development")
	svc := New(repo, carts, stock, users, events.NewInMemoryBus(log), fixedConfig{days: 30}, log)
	return &testEnv{svc: svc, repo: repo, carts: carts, stock: stock, users: users, customer: customer, vendor: vendor}
}

// fillCart puts one in-stock equipment line in the user's cart.
func (e *testEnv) fillCart(userID uuid.UUID) uuid.UUID {
	eqID := uuid.New()
	e.stock.stock[eqID] = &EquipmentStock{ID: eqID, Name: "Compressor", Stock: 10, IsActive: true}
	cart := cartdomain.NewCart(userID)
	cart.Items = []cartdomain.CartItem{{
		EquipmentID: eqID, Name: "Compressor", Code: "CMP-01",
		UnitPrice: decimal.RequireFromString("100.00"), Quantity: 2,
	}}
	e.carts.carts[userID] = cart
	return eqID
}

func TestCreateAsCustomer(t *testing.T) {
	env := newTestEnv()
	env.fillCart(env.customer.ID)

	resp, err := env.svc.Create(context.Background(), env.customer.ID, httpkit.RoleCustomer, transport.CreateQuotationRequest{})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if resp.State != domain.StateDraft {
		t.Errorf("state = %s, want draft", resp.State)
	}
	if resp.CustomerID != env.customer.ID {
		t.Errorf("customer = %s, want self", resp.CustomerID)
	}
	if resp.SalespersonID != env.vendor.ID {
		t.Errorf("salesperson = %s, want the only active vendor", resp.SalespersonID)
	}
	if resp.ContactName != "Ana Torres" || resp.ContactEmail != "ana@torres.example" {
		t.Errorf("contact snapshot = %s/%s", resp.ContactName, resp.ContactEmail)
	}
	if got, want := resp.Subtotal.String(), "200"; got != want {
		t.Errorf("subtotal = %s, want %s", got, want)
	}
	if !resp.Total.Equal(resp.Subtotal.Add(resp.Tax)) {
		t.Errorf("total %s != subtotal %s + tax %s", resp.Total, resp.Subtotal, resp.Tax)
	}
	if len(resp.Items) != 1 {
		t.Fatalf("items = %d, want 1", len(resp.Items))
	}

	// cart is cleared only after a committed creation
	if _, ok := env.carts.carts[env.customer.ID]; ok {
		t.Error("cart still populated after successful creation")
	}
}

func TestCreateEmptyCart(t *testing.T) {
	env := newTestEnv()

	_, err := env.svc.Create(context.Background(), env.customer.ID, httpkit.RoleCustomer, transport.CreateQuotationRequest{})
	if !apperr.HasCode(err, apperr.CodeEmptyCart) {
		t.Fatalf("Create() error = %v, want EMPTY_CART", err)
	}
	if len(env.repo.quotations) != 0 {
		t.Error("rows written despite empty cart")
	}
}

func TestCreateRequiresTargetCustomerForStaff(t *testing.T) {
	env := newTestEnv()
	env.fillCart(env.vendor.ID)

	_, err := env.svc.Create(context.Background(), env.vendor.ID, httpkit.RoleSalesperson, transport.CreateQuotationRequest{})
	if !apperr.HasCode(err, apperr.CodeNoTargetCustomer) {
		t.Fatalf("Create() error = %v, want NO_TARGET_CUSTOMER", err)
	}
}

func TestCreateSalespersonSelfAssigns(t *testing.T) {
	env := newTestEnv()
	env.fillCart(env.vendor.ID)

	resp, err := env.svc.Create(context.Background(), env.vendor.ID, httpkit.RoleSalesperson, transport.CreateQuotationRequest{
		TargetCustomerID: &env.customer.ID,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if resp.SalespersonID != env.vendor.ID {
		t.Errorf("salesperson = %s, want the creating salesperson", resp.SalespersonID)
	}
}

func TestCreateRandomAssignmentPicksActiveSalesperson(t *testing.T) {
	env := newTestEnv()
	second := &UserInfo{ID: uuid.New(), Role: httpkit.RoleSalesperson, IsActive: true}
	env.users.users[second.ID] = second
	env.users.salespersons = append(env.users.salespersons, second.ID)
	env.fillCart(env.customer.ID)

	resp, err := env.svc.Create(context.Background(), env.customer.ID, httpkit.RoleCustomer, transport.CreateQuotationRequest{})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	member := false
	for _, id := range env.users.salespersons {
		if resp.SalespersonID == id {
			member = true
		}
	}
	if !member {
		t.Errorf("assigned %s is not in the active salesperson set", resp.SalespersonID)
	}
}

func TestCreateNoVendorAvailable(t *testing.T) {
	env := newTestEnv()
	env.users.salespersons = nil
	env.fillCart(env.customer.ID)

	_, err := env.svc.Create(context.Background(), env.customer.ID, httpkit.RoleCustomer, transport.CreateQuotationRequest{})
	if !apperr.HasCode(err, apperr.CodeNoVendorAvailable) {
		t.Fatalf("Create() error = %v, want NO_VENDOR_AVAILABLE", err)
	}

	// a failed creation leaves the cart untouched
	cart := env.carts.carts[env.customer.ID]
	if cart == nil || len(cart.Items) != 1 {
		t.Error("cart changed by failed creation")
	}
}

func TestCreateInsufficientStock(t *testing.T) {
	env := newTestEnv()
	eqID := env.fillCart(env.customer.ID)
	env.stock.stock[eqID].Stock = 1

	_, err := env.svc.Create(context.Background(), env.customer.ID, httpkit.RoleCustomer, transport.CreateQuotationRequest{})
	if !apperr.HasCode(err, apperr.CodeInsufficientStock) {
		t.Fatalf("Create() error = %v, want INSUFFICIENT_STOCK", err)
	}
	if len(env.repo.quotations) != 0 {
		t.Error("rows written despite stock failure")
	}
	if cart := env.carts.carts[env.customer.ID]; cart == nil || cart.IsEmpty() {
		t.Error("cart cleared by failed creation")
	}
}

func TestCreateNumberFormatAndSequence(t *testing.T) {
	env := newTestEnv()
	env.svc.now = func() time.Time {
		return time.Date(2026, time.July, 1, 12, 0, 0, 0, time.UTC)
	}

	env.fillCart(env.customer.ID)
	first, err := env.svc.Create(context.Background(), env.customer.ID, httpkit.RoleCustomer, transport.CreateQuotationRequest{})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if first.Number != "COT-202607-0001" {
		t.Errorf("first number = %s, want COT-202607-0001", first.Number)
	}

	env.fillCart(env.customer.ID)
	second, err := env.svc.Create(context.Background(), env.customer.ID, httpkit.RoleCustomer, transport.CreateQuotationRequest{})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if second.Number != "COT-202607-0002" {
		t.Errorf("second number = %s, want COT-202607-0002", second.Number)
	}
}

func TestCreateRetriesOnNumberCollision(t *testing.T) {
	env := newTestEnv()
	env.repo.failInsert = 2
	env.fillCart(env.customer.ID)

	resp, err := env.svc.Create(context.Background(), env.customer.ID, httpkit.RoleCustomer, transport.CreateQuotationRequest{})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if env.repo.inserts != 3 {
		t.Errorf("inserts = %d, want 3", env.repo.inserts)
	}
	if resp.Number == "" {
		t.Error("no number assigned")
	}
}

func TestCreateGivesUpAfterRetries(t *testing.T) {
	env := newTestEnv()
	env.repo.failInsert = numberRetries
	env.fillCart(env.customer.ID)

	_, err := env.svc.Create(context.Background(), env.customer.ID, httpkit.RoleCustomer, transport.CreateQuotationRequest{})
	if !apperr.Is(err, apperr.KindInternal) {
		t.Fatalf("Create() error = %v, want internal", err)
	}
	if cart := env.carts.carts[env.customer.ID]; cart == nil || cart.IsEmpty() {
		t.Error("cart cleared by failed creation")
	}
}

// seedQuotation inserts a quotation directly into the fake repo.
func (e *testEnv) seedQuotation(state string, expiresAt time.Time) *repository.Quotation {
	q := &repository.Quotation{
		ID:            uuid.New(),
		Number:        "COT-202601-0001",
		CustomerID:    e.customer.ID,
		SalespersonID: e.vendor.ID,
		ContactName:   e.customer.FullName,
		ContactEmail:  e.customer.Email,
		Subtotal:      decimal.NewFromInt(100),
		Tax:           decimal.NewFromInt(18),
		Total:         decimal.NewFromInt(118),
		State:         state,
		ExpiresAt:     expiresAt,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	e.repo.quotations[q.ID] = q
	return q
}

func TestTransitionDraftToSent(t *testing.T) {
	env := newTestEnv()
	q := env.seedQuotation(domain.StateDraft, time.Now().Add(720*time.Hour))

	resp, err := env.svc.Transition(context.Background(), env.vendor.ID, httpkit.RoleSalesperson, q.ID, domain.StateSent)
	if err != nil {
		t.Fatalf("Transition() error = %v", err)
	}
	if resp.State != domain.StateSent {
		t.Errorf("state = %s, want sent", resp.State)
	}
}

func TestTransitionInvalidEdge(t *testing.T) {
	env := newTestEnv()
	q := env.seedQuotation(domain.StateDraft, time.Now().Add(720*time.Hour))

	_, err := env.svc.Transition(context.Background(), env.vendor.ID, httpkit.RoleSalesperson, q.ID, domain.StateApproved)
	if !apperr.HasCode(err, apperr.CodeInvalidTransition) {
		t.Fatalf("Transition() error = %v, want INVALID_TRANSITION", err)
	}
	if env.repo.quotations[q.ID].State != domain.StateDraft {
		t.Error("stored state changed by refused transition")
	}
}

func TestTransitionCustomerForbidden(t *testing.T) {
	env := newTestEnv()
	q := env.seedQuotation(domain.StateSent, time.Now().Add(720*time.Hour))

	_, err := env.svc.Transition(context.Background(), env.customer.ID, httpkit.RoleCustomer, q.ID, domain.StateApproved)
	if !apperr.Is(err, apperr.KindForbidden) {
		t.Fatalf("Transition() error = %v, want forbidden", err)
	}
}

func TestTransitionWrongSalespersonForbidden(t *testing.T) {
	env := newTestEnv()
	q := env.seedQuotation(domain.StateSent, time.Now().Add(720*time.Hour))

	_, err := env.svc.Transition(context.Background(), uuid.New(), httpkit.RoleSalesperson, q.ID, domain.StateApproved)
	if !apperr.Is(err, apperr.KindForbidden) {
		t.Fatalf("Transition() error = %v, want forbidden", err)
	}
}

func TestTransitionOverdueSentRefused(t *testing.T) {
	env := newTestEnv()
	q := env.seedQuotation(domain.StateSent, time.Now().Add(-24*time.Hour))

	_, err := env.svc.Transition(context.Background(), env.vendor.ID, httpkit.RoleSalesperson, q.ID, domain.StateApproved)
	if !apperr.HasCode(err, apperr.CodeInvalidTransition) {
		t.Fatalf("Transition() error = %v, want INVALID_TRANSITION", err)
	}
}

func TestGetHidesOtherCustomers(t *testing.T) {
	env := newTestEnv()
	q := env.seedQuotation(domain.StateDraft, time.Now().Add(720*time.Hour))

	_, err := env.svc.Get(context.Background(), uuid.New(), httpkit.RoleCustomer, q.ID)
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("Get() error = %v, want not found", err)
	}

	if _, err := env.svc.Get(context.Background(), env.customer.ID, httpkit.RoleCustomer, q.ID); err != nil {
		t.Fatalf("owner Get() error = %v", err)
	}
}

func TestDeleteDraftOnly(t *testing.T) {
	env := newTestEnv()
	draft := env.seedQuotation(domain.StateDraft, time.Now().Add(720*time.Hour))
	sent := env.seedQuotation(domain.StateSent, time.Now().Add(720*time.Hour))

	if err := env.svc.Delete(context.Background(), env.customer.ID, httpkit.RoleCustomer, draft.ID); err != nil {
		t.Fatalf("Delete(draft) error = %v", err)
	}

	err := env.svc.Delete(context.Background(), env.customer.ID, httpkit.RoleCustomer, sent.ID)
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("Delete(sent) error = %v, want not found", err)
	}

	err = env.svc.Delete(context.Background(), uuid.New(), httpkit.RoleCustomer, sent.ID)
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("Delete by stranger error = %v, want not found", err)
	}
}

func TestSweepExpiresOnlyOverdueSent(t *testing.T) {
	env := newTestEnv()
	overdue := env.seedQuotation(domain.StateSent, time.Now().Add(-24*time.Hour))
	fresh := env.seedQuotation(domain.StateSent, time.Now().Add(24*time.Hour))
	draft := env.seedQuotation(domain.StateDraft, time.Now().Add(-24*time.Hour))

	expired, err := env.svc.Sweep(context.Background())
	if err != nil {
		t.Fatalf("Sweep() error = %v", err)
	}
	if expired != 1 {
		t.Errorf("expired = %d, want 1", expired)
	}
	if env.repo.quotations[overdue.ID].State != domain.StateExpired {
		t.Error("overdue sent quotation not expired")
	}
	if env.repo.quotations[fresh.ID].State != domain.StateSent {
		t.Error("fresh sent quotation was expired")
	}
	if env.repo.quotations[draft.ID].State != domain.StateDraft {
		t.Error("draft was expired")
	}

	// idempotent: the second run finds nothing
	expired, err = env.svc.Sweep(context.Background())
	if err != nil {
		t.Fatalf("second Sweep() error = %v", err)
	}
	if expired != 0 {
		t.Errorf("second sweep expired = %d, want 0", expired)
	}
}

func TestListScopesByRole(t *testing.T) {
	env := newTestEnv()
	env.seedQuotation(domain.StateDraft, time.Now().Add(720*time.Hour))

	mine, err := env.svc.List(context.Background(), env.customer.ID, httpkit.RoleCustomer, transport.ListQuotationsRequest{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if mine.Total != 1 {
		t.Errorf("customer total = %d, want 1", mine.Total)
	}

	other, err := env.svc.List(context.Background(), uuid.New(), httpkit.RoleCustomer, transport.ListQuotationsRequest{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if other.Total != 0 {
		t.Errorf("stranger total = %d, want 0", other.Total)
	}

	all, err := env.svc.List(context.Background(), uuid.New(), httpkit.RoleAdmin, transport.ListQuotationsRequest{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if all.Total != 1 {
		t.Errorf("admin total = %d, want 1", all.Total)
	}
}

func TestListRejectsUnknownStateFilter(t *testing.T) {
	env := newTestEnv()

	_, err := env.svc.List(context.Background(), env.customer.ID, httpkit.RoleCustomer, transport.ListQuotationsRequest{State: "cancelled"})
	if !apperr.Is(err, apperr.KindBadRequest) {
		t.Fatalf("List() error = %v, want bad request", err)
	}
}
