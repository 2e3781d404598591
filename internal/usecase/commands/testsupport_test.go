//go:build unit

package commands_test

import (
	"context"
	"sync"
	"time"

	"salonbook/internal/domain/audit"
	"salonbook/internal/domain/booking"
	"salonbook/internal/domain/inventory"
	"salonbook/internal/domain/ledger"
	"salonbook/internal/domain/order"
	"salonbook/internal/domain/payment"
	"salonbook/internal/pkg/errs"
	"salonbook/internal/usecase/shared"

	"github.com/google/uuid"
)

// memStore backs the fake unit of work with real conditional semantics:
// TrySpend fails on insufficient funds, AdjustPending refuses to go
// negative, ConfirmDeduct checks actual stock. A failed transaction rolls
// the whole store back to its pre-transaction snapshot.
type memStore struct {
	mu sync.Mutex

	balances     map[uuid.UUID]int64
	holds        map[uuid.UUID]int64
	entries      []entryRec
	stockActual  map[uuid.UUID]int32
	stockPending map[uuid.UUID]int32
	services     map[uuid.UUID]shared.ServiceItemSnapshot
	products     map[uuid.UUID]shared.ProductSnapshot
	appointments map[uuid.UUID]appointmentRec
	orders       map[uuid.UUID]orderRec
	idem         map[idemKey]idemRec
	auditTrail   []auditRec
}

type entryRec struct {
	UserID      uuid.UUID
	Kind        ledger.EntryKind
	AmountCents int64
	RefKind     string
	RefID       uuid.UUID
}

type appointmentRec struct {
	UserID           uuid.UUID
	At               time.Time
	Status           booking.Status
	TotalCents       int64
	PayMethod        payment.Method
	BalanceCentsUsed int64
	PaymentRef       *string
	Items            []booking.LineItem
	Version          int64
}

type orderRec struct {
	UserID           uuid.UUID
	Status           order.Status
	TotalCents       int64
	Address          string
	Phone            string
	PayMethod        payment.Method
	BalanceCentsUsed int64
	PaymentRef       *string
	TrackingNo       *string
	Items            []order.LineItem
	Version          int64
}

type idemKey struct {
	Key    uuid.UUID
	UserID uuid.UUID
}

type idemRec struct {
	RequestHash string
	Status      string
	ResultID    *uuid.UUID
	ExpiresAt   time.Time
}

type auditRec struct {
	EntityType string
	EntityID   uuid.UUID
	Action     string
}

func newMemStore() *memStore {
	return &memStore{
		balances:     map[uuid.UUID]int64{},
		holds:        map[uuid.UUID]int64{},
		stockActual:  map[uuid.UUID]int32{},
		stockPending: map[uuid.UUID]int32{},
		services:     map[uuid.UUID]shared.ServiceItemSnapshot{},
		products:     map[uuid.UUID]shared.ProductSnapshot{},
		appointments: map[uuid.UUID]appointmentRec{},
		orders:       map[uuid.UUID]orderRec{},
		idem:         map[idemKey]idemRec{},
	}
}

func (s *memStore) addUser(balanceCents int64) uuid.UUID {
	id := uuid.New()
	s.balances[id] = balanceCents
	return id
}

func (s *memStore) addService(priceCents int64) uuid.UUID {
	id := uuid.New()
	s.services[id] = shared.ServiceItemSnapshot{ID: id, Name: "cut", PriceCents: priceCents}
	return id
}

func (s *memStore) addProduct(priceCents int64, stock int32) uuid.UUID {
	id := uuid.New()
	s.products[id] = shared.ProductSnapshot{ID: id, Name: "shampoo", PriceCents: priceCents, Status: "on"}
	s.stockActual[id] = stock
	return id
}

func (s *memStore) snapshot() *memStore {
	clone := newMemStore()
	for k, v := range s.balances {
		clone.balances[k] = v
	}
	for k, v := range s.holds {
		clone.holds[k] = v
	}
	for k, v := range s.stockActual {
		clone.stockActual[k] = v
	}
	for k, v := range s.stockPending {
		clone.stockPending[k] = v
	}
	for k, v := range s.appointments {
		clone.appointments[k] = v
	}
	for k, v := range s.orders {
		clone.orders[k] = v
	}
	for k, v := range s.idem {
		clone.idem[k] = v
	}
	clone.entries = append([]entryRec(nil), s.entries...)
	clone.auditTrail = append([]auditRec(nil), s.auditTrail...)
	return clone
}

func (s *memStore) restore(snap *memStore) {
	s.balances = snap.balances
	s.holds = snap.holds
	s.stockActual = snap.stockActual
	s.stockPending = snap.stockPending
	s.appointments = snap.appointments
	s.orders = snap.orders
	s.idem = snap.idem
	s.entries = snap.entries
	s.auditTrail = snap.auditTrail
}

// fakeUoW serializes transactions with a mutex and discards all writes when
// fn returns an error, mirroring commit/rollback.
type fakeUoW struct {
	store *memStore
}

func (u *fakeUoW) Within(_ context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	u.store.mu.Lock()
	defer u.store.mu.Unlock()

	snap := u.store.snapshot()
	if err := fn(context.Background(), &fakeTx{store: u.store}); err != nil {
		u.store.restore(snap)
		return err
	}
	return nil
}

type fakeTx struct {
	store *memStore
}

func (t *fakeTx) Ledger() shared.LedgerRepository           { return &fakeLedger{t.store} }
func (t *fakeTx) Inventory() shared.InventoryRepository     { return &fakeInventory{t.store} }
func (t *fakeTx) Products() shared.ProductRepository        { return &fakeProducts{t.store} }
func (t *fakeTx) Appointments() shared.AppointmentRepository { return &fakeAppointments{t.store} }
func (t *fakeTx) Orders() shared.OrderRepository            { return &fakeOrders{t.store} }
func (t *fakeTx) Audit() shared.AuditTrail                  { return &fakeAudit{t.store} }
func (t *fakeTx) Users() shared.UserRepository              { return &fakeUsers{t.store} }
func (t *fakeTx) Idempotency() shared.IdempotencyRepository { return &fakeIdempotency{t.store} }
func (t *fakeTx) Reads() shared.TxReads                     { return &fakeReads{t.store} }

type fakeLedger struct{ s *memStore }

func (r *fakeLedger) LockAccount(_ context.Context, userID uuid.UUID) (*ledger.Account, error) {
	balance, ok := r.s.balances[userID]
	if !ok {
		return nil, errs.ErrAccountNotFound
	}
	return &ledger.Account{UserID: userID, BalanceCents: balance, PendingCents: r.s.holds[userID]}, nil
}

func (r *fakeLedger) LockHold(_ context.Context, userID uuid.UUID) error {
	if _, ok := r.s.holds[userID]; !ok {
		return errs.ErrHoldNotFound
	}
	return nil
}

func (r *fakeLedger) TopUp(_ context.Context, userID uuid.UUID, amountCents int64) error {
	if amountCents <= 0 {
		return errs.ErrInvalidAmount
	}
	if _, ok := r.s.balances[userID]; !ok {
		return errs.ErrAccountNotFound
	}
	r.s.balances[userID] += amountCents
	r.s.entries = append(r.s.entries, entryRec{UserID: userID, Kind: ledger.EntryTopUp, AmountCents: amountCents})
	return nil
}

func (r *fakeLedger) TrySpend(_ context.Context, userID uuid.UUID, amountCents int64, refKind string, refID uuid.UUID) error {
	if r.s.balances[userID] < amountCents {
		return errs.ErrInsufficientFunds
	}
	r.s.balances[userID] -= amountCents
	r.s.entries = append(r.s.entries, entryRec{UserID: userID, Kind: ledger.EntrySpend, AmountCents: amountCents, RefKind: refKind, RefID: refID})
	return nil
}

func (r *fakeLedger) Freeze(_ context.Context, userID uuid.UUID, amountCents int64) error {
	r.s.holds[userID] += amountCents
	return nil
}

func (r *fakeLedger) AdjustPending(_ context.Context, userID uuid.UUID, deltaCents int64) error {
	if r.s.holds[userID]+deltaCents < 0 {
		return errs.ErrNegativeHold
	}
	r.s.holds[userID] += deltaCents
	return nil
}

func (r *fakeLedger) Refund(_ context.Context, userID uuid.UUID, amountCents int64, refKind string, refID uuid.UUID) error {
	r.s.balances[userID] += amountCents
	r.s.entries = append(r.s.entries, entryRec{UserID: userID, Kind: ledger.EntryRefund, AmountCents: amountCents, RefKind: refKind, RefID: refID})
	return nil
}

type fakeInventory struct{ s *memStore }

func (r *fakeInventory) LockItem(_ context.Context, itemID uuid.UUID) (*inventory.StockItem, error) {
	if _, ok := r.s.products[itemID]; !ok {
		return nil, errs.ErrItemNotFound
	}
	return &inventory.StockItem{
		ItemID:       itemID,
		StockActual:  r.s.stockActual[itemID],
		StockPending: r.s.stockPending[itemID],
	}, nil
}

func (r *fakeInventory) FreezeStock(_ context.Context, itemID uuid.UUID, qty int32) error {
	if _, ok := r.s.products[itemID]; !ok {
		return errs.ErrItemNotFound
	}
	r.s.stockPending[itemID] += qty
	return nil
}

func (r *fakeInventory) AdjustFrozen(_ context.Context, itemID uuid.UUID, delta int32) error {
	if r.s.stockPending[itemID]+delta < 0 {
		return errs.ErrNegativeHold
	}
	r.s.stockPending[itemID] += delta
	return nil
}

func (r *fakeInventory) ConfirmDeduct(_ context.Context, itemID uuid.UUID, qty int32) error {
	if r.s.stockActual[itemID] < qty {
		return errs.ErrInsufficientStock
	}
	r.s.stockActual[itemID] -= qty
	return nil
}

func (r *fakeInventory) RestoreStock(_ context.Context, itemID uuid.UUID, qty int32) error {
	if _, ok := r.s.products[itemID]; !ok {
		return errs.ErrItemNotFound
	}
	r.s.stockActual[itemID] += qty
	return nil
}

type fakeProducts struct{ s *memStore }

func (r *fakeProducts) Create(_ context.Context, input shared.CreateProductInput) (uuid.UUID, error) {
	id := uuid.New()
	r.s.products[id] = shared.ProductSnapshot{ID: id, Name: input.Name, PriceCents: input.PriceCents, Status: "off"}
	return id, nil
}

func (r *fakeProducts) Update(_ context.Context, input shared.UpdateProductInput) error {
	snap, ok := r.s.products[input.ID]
	if !ok {
		return errs.ErrItemNotFound
	}
	if input.Name != nil {
		snap.Name = *input.Name
	}
	if input.PriceCents != nil {
		snap.PriceCents = *input.PriceCents
	}
	if input.Status != nil {
		snap.Status = *input.Status
	}
	r.s.products[input.ID] = snap
	return nil
}

type fakeAppointments struct{ s *memStore }

func (r *fakeAppointments) Create(_ context.Context, a *booking.Appointment) (uuid.UUID, error) {
	r.s.appointments[a.ID()] = appointmentRec{
		UserID:           a.UserID(),
		At:               a.AppointmentAt(),
		Status:           a.Status(),
		TotalCents:       a.TotalCents(),
		PayMethod:        a.PayMethod(),
		BalanceCentsUsed: a.BalanceCentsUsed(),
		Items:            a.Items(),
		Version:          1,
	}
	return a.ID(), nil
}

func (r *fakeAppointments) FindForUpdate(_ context.Context, id uuid.UUID) (*booking.Appointment, error) {
	rec, ok := r.s.appointments[id]
	if !ok {
		return nil, errs.ErrAppointmentNotFound
	}
	return booking.ReconstructAppointment(id, rec.UserID, rec.At, rec.Status, rec.TotalCents,
		rec.PayMethod, rec.BalanceCentsUsed, rec.PaymentRef, rec.Items, rec.Version,
		time.Now(), time.Now()), nil
}

func (r *fakeAppointments) UpdateStatus(_ context.Context, id uuid.UUID, status booking.Status, version int64) error {
	rec, ok := r.s.appointments[id]
	if !ok {
		return errs.ErrAppointmentNotFound
	}
	rec.Status = status
	rec.Version = version + 1
	r.s.appointments[id] = rec
	return nil
}

func (r *fakeAppointments) SetPaymentRef(_ context.Context, id uuid.UUID, ref string) error {
	rec, ok := r.s.appointments[id]
	if !ok {
		return errs.ErrAppointmentNotFound
	}
	rec.PaymentRef = &ref
	r.s.appointments[id] = rec
	return nil
}

func (r *fakeAppointments) ExistsAt(_ context.Context, userID uuid.UUID, at time.Time) (bool, error) {
	for _, rec := range r.s.appointments {
		if rec.UserID == userID && rec.At.Equal(at) && rec.Status == booking.StatusUnconfirmed {
			return true, nil
		}
	}
	return false, nil
}

type fakeOrders struct{ s *memStore }

func (r *fakeOrders) Create(_ context.Context, o *order.ShopOrder) (uuid.UUID, error) {
	r.s.orders[o.ID()] = orderRec{
		UserID:           o.UserID(),
		Status:           o.Status(),
		TotalCents:       o.TotalCents(),
		Address:          o.Address(),
		Phone:            o.Phone(),
		PayMethod:        o.PayMethod(),
		BalanceCentsUsed: o.BalanceCentsUsed(),
		Items:            o.Items(),
		Version:          1,
	}
	return o.ID(), nil
}

func (r *fakeOrders) FindForUpdate(_ context.Context, id uuid.UUID) (*order.ShopOrder, error) {
	rec, ok := r.s.orders[id]
	if !ok {
		return nil, errs.ErrOrderNotFound
	}
	return order.ReconstructShopOrder(id, rec.UserID, rec.Status, rec.TotalCents,
		rec.Address, rec.Phone, rec.PayMethod, rec.BalanceCentsUsed,
		rec.PaymentRef, rec.TrackingNo, rec.Items, rec.Version,
		time.Now(), time.Now()), nil
}

func (r *fakeOrders) UpdateStatus(_ context.Context, id uuid.UUID, status order.Status, version int64) error {
	rec, ok := r.s.orders[id]
	if !ok {
		return errs.ErrOrderNotFound
	}
	rec.Status = status
	rec.Version = version + 1
	r.s.orders[id] = rec
	return nil
}

func (r *fakeOrders) SetPaymentRef(_ context.Context, id uuid.UUID, ref string) error {
	rec, ok := r.s.orders[id]
	if !ok {
		return errs.ErrOrderNotFound
	}
	rec.PaymentRef = &ref
	r.s.orders[id] = rec
	return nil
}

func (r *fakeOrders) SetTracking(_ context.Context, id uuid.UUID, trackingNo string, version int64) error {
	rec, ok := r.s.orders[id]
	if !ok {
		return errs.ErrOrderNotFound
	}
	rec.TrackingNo = &trackingNo
	rec.Version = version + 1
	r.s.orders[id] = rec
	return nil
}

type fakeAudit struct{ s *memStore }

func (r *fakeAudit) Record(_ context.Context, _ audit.Actor, entityType string, entityID uuid.UUID, action string, _, _ map[string]any) error {
	r.s.auditTrail = append(r.s.auditTrail, auditRec{EntityType: entityType, EntityID: entityID, Action: action})
	return nil
}

type fakeUsers struct{ s *memStore }

func (r *fakeUsers) Create(_ context.Context, _, _, _ string) (uuid.UUID, error) {
	return r.s.addUser(0), nil
}

func (r *fakeUsers) UpdateLastLogin(_ context.Context, _ uuid.UUID) error {
	return nil
}

type fakeIdempotency struct{ s *memStore }

func (r *fakeIdempotency) Begin(_ context.Context, key, userID uuid.UUID, _, requestHash string, now time.Time) (shared.IdempotencyBegin, error) {
	k := idemKey{Key: key, UserID: userID}
	rec, ok := r.s.idem[k]
	if !ok {
		r.s.idem[k] = idemRec{RequestHash: requestHash, Status: "processing", ExpiresAt: now.Add(24 * time.Hour)}
		return shared.IdempotencyBegin{}, nil
	}
	if rec.RequestHash != requestHash {
		return shared.IdempotencyBegin{}, errs.ErrIdempotencyMismatch
	}
	switch rec.Status {
	case "completed":
		return shared.IdempotencyBegin{Replay: true, ResultID: rec.ResultID}, nil
	case "processing":
		if now.Before(rec.ExpiresAt) {
			return shared.IdempotencyBegin{}, errs.ErrIdempotencyInProgress
		}
		rec.ExpiresAt = now.Add(24 * time.Hour)
		r.s.idem[k] = rec
		return shared.IdempotencyBegin{}, nil
	default:
		return shared.IdempotencyBegin{}, errs.ErrIdempotencyCheckFailed
	}
}

func (r *fakeIdempotency) Complete(_ context.Context, key, userID, resultID uuid.UUID) error {
	k := idemKey{Key: key, UserID: userID}
	rec, ok := r.s.idem[k]
	if !ok {
		return errs.ErrIdempotencyCheckFailed
	}
	rec.Status = "completed"
	rec.ResultID = &resultID
	r.s.idem[k] = rec
	return nil
}

type fakeReads struct{ s *memStore }

func (r *fakeReads) ServiceItemByID(_ context.Context, id uuid.UUID) (*shared.ServiceItemSnapshot, error) {
	snap, ok := r.s.services[id]
	if !ok {
		return nil, errs.ErrItemNotFound
	}
	return &snap, nil
}

func (r *fakeReads) ProductByID(_ context.Context, id uuid.UUID) (*shared.ProductSnapshot, error) {
	snap, ok := r.s.products[id]
	if !ok {
		return nil, errs.ErrItemNotFound
	}
	return &snap, nil
}

// fakeGateway records calls and fails on demand.
type fakeGateway struct {
	mu           sync.Mutex
	initiateErr  error
	confirmErr   error
	refundErr    error
	initiated    []uuid.UUID
	confirmed    []string
	refunded     []string
}

func (g *fakeGateway) InitiatePayment(_ context.Context, unitID uuid.UUID, _ int64) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.initiateErr != nil {
		return "", g.initiateErr
	}
	g.initiated = append(g.initiated, unitID)
	return "PAY-" + unitID.String(), nil
}

func (g *fakeGateway) ConfirmPayment(_ context.Context, paymentRef string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.confirmErr != nil {
		return g.confirmErr
	}
	g.confirmed = append(g.confirmed, paymentRef)
	return nil
}

func (g *fakeGateway) RefundPayment(_ context.Context, paymentRef string, _ int64) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.refundErr != nil {
		return g.refundErr
	}
	g.refunded = append(g.refunded, paymentRef)
	return nil
}

type fakeSink struct {
	mu     sync.Mutex
	events []string
}

func (s *fakeSink) Notify(_ context.Context, _ uuid.UUID, event string, _ map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}
