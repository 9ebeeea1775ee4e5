// Package service implements the quotation lifecycle: creation from a
// cart, numbering, state transitions, listing and expiry.
package service

import (
	"context"
	"errors"
	"math/rand"
	"time"

	cartdomain "cotizador_backend/internal/cart/domain"
	domainevents "cotizador_backend/internal/events"
	"cotizador_backend/internal/quotations/domain"
	"cotizador_backend/internal/quotations/repository"
	"cotizador_backend/internal/quotations/transport"
	"cotizador_backend/platform/apperr"
	"cotizador_backend/platform/events"
	"cotizador_backend/platform/httpkit"
	"cotizador_backend/platform/logger"

	"github.com/google/uuid"
)

// numberRetries bounds how many times creation retries after losing a
// numbering race to a concurrent insert.
const numberRetries = 3

// Repository is the persistence surface the service needs.
type Repository interface {
	CountCreatedInYear(ctx context.Context, year int) (int, error)
	CreateWithItems(ctx context.Context, q *repository.Quotation, items []repository.QuotationItem) error
	GetByID(ctx context.Context, id uuid.UUID) (*repository.Quotation, error)
	GetItems(ctx context.Context, quotationID uuid.UUID) ([]repository.QuotationItem, error)
	List(ctx context.Context, params repository.ListParams) (*repository.ListResult, error)
	UpdateState(ctx context.Context, id uuid.UUID, state string) error
	Delete(ctx context.Context, id uuid.UUID) error
	ExpireOverdue(ctx context.Context, now time.Time) (int64, error)
}

// CartAccess reads and clears the acting user's cart.
type CartAccess interface {
	GetCart(ctx context.Context, userID uuid.UUID) (*cartdomain.Cart, error)
	Clear(ctx context.Context, userID uuid.UUID) error
}

// EquipmentStock is the catalog view needed for the creation stock check.
type EquipmentStock struct {
	ID       uuid.UUID
	Name     string
	Stock    int
	IsActive bool
}

// StockReader resolves live equipment stock from the catalog.
type StockReader interface {
	GetStock(ctx context.Context, id uuid.UUID) (*EquipmentStock, error)
}

// UserInfo is the account view needed for snapshots and assignment.
type UserInfo struct {
	ID          uuid.UUID
	FullName    string
	CompanyName string
	Email       string
	Phone       string
	Role        string
	IsActive    bool
}

// UserDirectory resolves accounts and the active sales force.
type UserDirectory interface {
	GetUser(ctx context.Context, id uuid.UUID) (*UserInfo, error)
	ActiveSalespersonIDs(ctx context.Context) ([]uuid.UUID, error)
}

// Config provides quotation lifecycle settings.
type Config interface {
	GetQuotationValidityDays() int
}

// Service provides quotation operations.
type Service struct {
	repo    Repository
	cart    CartAccess
	catalog StockReader
	users   UserDirectory
	bus     events.Bus
	cfg     Config
	log     *logger.Logger
	now     func() time.Time
	pick    func(n int) int
}

// New creates a new quotations service.
func New(repo Repository, cart CartAccess, catalog StockReader, users UserDirectory, bus events.Bus, cfg Config, log *logger.Logger) *Service {
	return &Service{
		repo:    repo,
		cart:    cart,
		catalog: catalog,
		users:   users,
		bus:     bus,
		cfg:     cfg,
		log:     log,
		now:     time.Now,
		pick:    rand.Intn,
	}
}

// Create turns the caller's cart into a numbered draft quotation. The
// cart is cleared only after the quotation is committed.
func (s *Service) Create(ctx context.Context, actorID uuid.UUID, role string, req transport.CreateQuotationRequest) (*transport.QuotationResponse, error) {
	cart, err := s.cart.GetCart(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if cart.IsEmpty() {
		return nil, apperr.BadRequest("cart is empty").WithCode(apperr.CodeEmptyCart)
	}

	customerID, err := s.resolveCustomer(actorID, role, req.TargetCustomerID)
	if err != nil {
		return nil, err
	}

	customer, err := s.users.GetUser(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if customer.Role != httpkit.RoleCustomer || !customer.IsActive {
		return nil, apperr.Validation("target is not an active customer")
	}

	if err := s.checkStock(ctx, cart); err != nil {
		return nil, err
	}

	salespersonID, err := s.assignVendor(ctx, actorID, role, req.VendorID)
	if err != nil {
		return nil, err
	}

	lines := make([]domain.Line, len(cart.Items))
	for i, item := range cart.Items {
		lines[i] = domain.Line{Quantity: item.Quantity, UnitPrice: item.UnitPrice}
	}
	totals := domain.Calculate(lines)

	now := s.now()
	q := &repository.Quotation{
		ID:            uuid.New(),
		CustomerID:    customerID,
		SalespersonID: salespersonID,
		CompanyName:   customer.CompanyName,
		ContactName:   customer.FullName,
		ContactEmail:  customer.Email,
		ContactPhone:  customer.Phone,
		Subtotal:      totals.Subtotal,
		Tax:           totals.Tax,
		Total:         totals.Total,
		State:         domain.StateDraft,
		Notes:         req.Notes,
		ExpiresAt:     now.AddDate(0, 0, s.cfg.GetQuotationValidityDays()),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	items := make([]repository.QuotationItem, len(cart.Items))
	for i, item := range cart.Items {
		items[i] = repository.QuotationItem{
			ID:            uuid.New(),
			QuotationID:   q.ID,
			EquipmentID:   item.EquipmentID,
			EquipmentName: item.Name,
			EquipmentCode: item.Code,
			Quantity:      item.Quantity,
			UnitPrice:     item.UnitPrice,
			LineSubtotal:  item.LineSubtotal(),
			CreatedAt:     now,
		}
	}

	if err := s.insertNumbered(ctx, q, items); err != nil {
		return nil, err
	}

	if err := s.cart.Clear(ctx, actorID); err != nil {
		// the quotation is committed; a stale cart is recoverable
		s.log.Warn("failed to clear cart after quotation", "error", err.Error())
	}

	s.log.QuotationEvent("created", q.Number, q.State)
	s.bus.Publish(ctx, domainevents.QuotationCreated{
		BaseEvent:   events.NewBaseEvent(),
		QuotationID: q.ID,
		Number:      q.Number,
		CustomerID:  q.CustomerID,
	})

	resp := buildQuotationResponse(q, items)
	return &resp, nil
}

// insertNumbered assigns a sequence number and inserts, retrying with a
// fresh count if a concurrent creation claimed the same number.
func (s *Service) insertNumbered(ctx context.Context, q *repository.Quotation, items []repository.QuotationItem) error {
	for attempt := 0; attempt < numberRetries; attempt++ {
		count, err := s.repo.CountCreatedInYear(ctx, q.CreatedAt.Year())
		if err != nil {
			return err
		}
		q.Number = domain.FormatNumber(q.CreatedAt, count+1)

		err = s.repo.CreateWithItems(ctx, q, items)
		if err == nil {
			return nil
		}
		if !errors.Is(err, repository.ErrDuplicateNumber) {
			return err
		}
	}
	return apperr.Internal("could not allocate quotation number")
}

func (s *Service) resolveCustomer(actorID uuid.UUID, role string, target *uuid.UUID) (uuid.UUID, error) {
	if role == httpkit.RoleCustomer {
		if target != nil && *target != actorID {
			return uuid.Nil, apperr.Forbidden("customers cannot quote for another account")
		}
		return actorID, nil
	}
	if target == nil {
		return uuid.Nil, apperr.BadRequest("target customer is required").WithCode(apperr.CodeNoTargetCustomer)
	}
	return *target, nil
}

func (s *Service) checkStock(ctx context.Context, cart *cartdomain.Cart) error {
	for _, item := range cart.Items {
		eq, err := s.catalog.GetStock(ctx, item.EquipmentID)
		if err != nil {
			return err
		}
		if !eq.IsActive {
			return apperr.Conflict("equipment no longer available: " + item.Name).
				WithCode(apperr.CodeInsufficientStock).
				WithDetails(map[string]interface{}{"equipmentId": item.EquipmentID, "available": 0, "requested": item.Quantity})
		}
		if item.Quantity > eq.Stock {
			return apperr.Conflict("insufficient stock for " + eq.Name).
				WithCode(apperr.CodeInsufficientStock).
				WithDetails(map[string]interface{}{"equipmentId": item.EquipmentID, "available": eq.Stock, "requested": item.Quantity})
		}
	}
	return nil
}

// assignVendor picks the salesperson responsible for the quotation.
// Salespersons take their own quotations; an admin may pin one
// explicitly; otherwise one is drawn at random from the active force.
func (s *Service) assignVendor(ctx context.Context, actorID uuid.UUID, role string, vendorID *uuid.UUID) (uuid.UUID, error) {
	if role == httpkit.RoleSalesperson {
		return actorID, nil
	}

	if role == httpkit.RoleAdmin && vendorID != nil {
		vendor, err := s.users.GetUser(ctx, *vendorID)
		if err != nil {
			return uuid.Nil, err
		}
		if vendor.Role != httpkit.RoleSalesperson || !vendor.IsActive {
			return uuid.Nil, apperr.Validation("vendor is not an active salesperson")
		}
		return vendor.ID, nil
	}

	ids, err := s.users.ActiveSalespersonIDs(ctx)
	if err != nil {
		return uuid.Nil, err
	}
	if len(ids) == 0 {
		return uuid.Nil, apperr.Conflict("no salesperson available").WithCode(apperr.CodeNoVendorAvailable)
	}
	return ids[s.pick(len(ids))], nil
}

// Get returns a quotation with its items if the caller may see it.
func (s *Service) Get(ctx context.Context, actorID uuid.UUID, role string, id uuid.UUID) (*transport.QuotationResponse, error) {
	q, err := s.getVisible(ctx, actorID, role, id)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.GetItems(ctx, q.ID)
	if err != nil {
		return nil, err
	}

	resp := buildQuotationResponse(q, items)
	return &resp, nil
}

// getVisible loads a quotation and hides it from callers outside its
// customer/salesperson pair. Invisible and missing look the same.
func (s *Service) getVisible(ctx context.Context, actorID uuid.UUID, role string, id uuid.UUID) (*repository.Quotation, error) {
	q, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	switch role {
	case httpkit.RoleAdmin:
		return q, nil
	case httpkit.RoleSalesperson:
		if q.SalespersonID == actorID {
			return q, nil
		}
	default:
		if q.CustomerID == actorID {
			return q, nil
		}
	}
	return nil, apperr.NotFound("quotation not found")
}

// List returns the quotations visible to the caller, newest first.
// Overdue sent quotations are swept before reading so listings never
// show a stale sent state.
func (s *Service) List(ctx context.Context, actorID uuid.UUID, role string, req transport.ListQuotationsRequest) (*transport.QuotationListResponse, error) {
	if _, err := s.repo.ExpireOverdue(ctx, s.now()); err != nil {
		s.log.DatabaseError("expire_overdue", err)
	}

	if req.State != "" && !domain.IsValidState(req.State) {
		return nil, apperr.BadRequest("unknown state filter")
	}

	params := repository.ListParams{
		State:    req.State,
		Number:   req.Number,
		Page:     max(req.Page, 1),
		PageSize: clampPageSize(req.PageSize),
	}
	switch role {
	case httpkit.RoleAdmin:
	case httpkit.RoleSalesperson:
		params.SalespersonID = &actorID
	default:
		params.CustomerID = &actorID
	}

	result, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	items := make([]transport.QuotationResponse, len(result.Items))
	for i := range result.Items {
		items[i] = buildQuotationResponse(&result.Items[i], nil)
	}

	return &transport.QuotationListResponse{
		Items:      items,
		Total:      result.Total,
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalPages: result.TotalPages,
	}, nil
}

// Transition moves a quotation to a new state, enforcing the lifecycle
// graph and the caller's role.
func (s *Service) Transition(ctx context.Context, actorID uuid.UUID, role string, id uuid.UUID, toState string) (*transport.QuotationResponse, error) {
	q, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !domain.CanTransition(q.State, toState) {
		return nil, invalidTransition(q.State, toState)
	}
	if q.State == domain.StateSent && s.now().After(q.ExpiresAt) {
		return nil, invalidTransition(domain.StateExpired, toState)
	}
	if err := authorizeTransition(actorID, role, q); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateState(ctx, q.ID, toState); err != nil {
		return nil, err
	}

	fromState := q.State
	q.State = toState
	q.UpdatedAt = s.now()

	s.log.QuotationEvent("transitioned", q.Number, toState)
	s.bus.Publish(ctx, domainevents.QuotationStateChanged{
		BaseEvent:    events.NewBaseEvent(),
		QuotationID:  q.ID,
		Number:       q.Number,
		FromState:    fromState,
		ToState:      toState,
		ContactName:  q.ContactName,
		ContactEmail: q.ContactEmail,
		Total:        q.Total.StringFixed(2),
	})

	resp := buildQuotationResponse(q, nil)
	return &resp, nil
}

func invalidTransition(from, to string) *apperr.Error {
	return apperr.Conflict("cannot transition from "+from+" to "+to).
		WithCode(apperr.CodeInvalidTransition)
}

// authorizeTransition is the single capability check for lifecycle
// moves: the caller must stand in the right relation to the quotation
// (customer owns it, salesperson is assigned to it, admin always), and
// the role must be allowed to take the edge at all. Customers never
// decide outcomes; the sales side records approval or rejection.
func authorizeTransition(actorID uuid.UUID, role string, q *repository.Quotation) error {
	switch role {
	case httpkit.RoleAdmin:
	case httpkit.RoleSalesperson:
		if q.SalespersonID != actorID {
			return apperr.Forbidden("quotation is assigned to another salesperson")
		}
	case httpkit.RoleCustomer:
		if q.CustomerID != actorID {
			return apperr.Forbidden("quotation belongs to another customer")
		}
		// outcomes are recorded by the sales side on the customer's behalf
		return apperr.Forbidden("customers cannot change quotation state")
	default:
		return apperr.Forbidden("unknown role")
	}
	return nil
}

// Delete removes a draft quotation. Missing, non-draft and invisible
// quotations all answer not found.
func (s *Service) Delete(ctx context.Context, actorID uuid.UUID, role string, id uuid.UUID) error {
	q, err := s.getVisible(ctx, actorID, role, id)
	if err != nil {
		return err
	}
	if q.State != domain.StateDraft {
		return apperr.NotFound("quotation not found")
	}

	if err := s.repo.Delete(ctx, q.ID); err != nil {
		return err
	}
	s.log.QuotationEvent("deleted", q.Number, q.State)
	return nil
}

// Sweep expires all overdue sent quotations and returns how many changed.
func (s *Service) Sweep(ctx context.Context) (int64, error) {
	expired, err := s.repo.ExpireOverdue(ctx, s.now())
	if err != nil {
		return 0, err
	}
	s.log.SweepCompleted(expired)
	return expired, nil
}

func buildQuotationResponse(q *repository.Quotation, items []repository.QuotationItem) transport.QuotationResponse {
	resp := transport.QuotationResponse{
		ID:            q.ID,
		Number:        q.Number,
		CustomerID:    q.CustomerID,
		SalespersonID: q.SalespersonID,
		CompanyName:   q.CompanyName,
		ContactName:   q.ContactName,
		ContactEmail:  q.ContactEmail,
		ContactPhone:  q.ContactPhone,
		Subtotal:      q.Subtotal,
		Tax:           q.Tax,
		Total:         q.Total,
		State:         q.State,
		Notes:         q.Notes,
		ExpiresAt:     q.ExpiresAt,
		CreatedAt:     q.CreatedAt,
		UpdatedAt:     q.UpdatedAt,
	}
	for _, item := range items {
		resp.Items = append(resp.Items, transport.QuotationItemResponse{
			ID:            item.ID,
			EquipmentID:   item.EquipmentID,
			EquipmentName: item.EquipmentName,
			EquipmentCode: item.EquipmentCode,
			Quantity:      item.Quantity,
			UnitPrice:     item.UnitPrice,
			LineSubtotal:  item.LineSubtotal,
		})
	}
	return resp
}

func clampPageSize(size int) int {
	if size < 1 || size > 100 {
		return 20
	}
	return size
}
