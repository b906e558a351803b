package commands_test

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"savannah/internal/core/application/usecases/commands"
	"savannah/internal/core/domain/model/customer"
	"savannah/internal/core/domain/model/kernel"
	"savannah/internal/core/domain/model/notification"
	"savannah/internal/core/domain/model/order"
	"savannah/internal/core/ports"
	"savannah/internal/pkg/errs"
)

// memoryStore is an in-memory stand-in for postgres. Writes apply at once;
// the unique checks under the store lock play the role of the unique
// constraints, and GetForUpdate takes a per-order lock held until the unit
// of work ends.
type memoryStore struct {
	mu        sync.Mutex
	customers map[kernel.UUID]customer.Customer
	orders    map[kernel.UUID]order.Order
	rows      map[kernel.UUID]*sync.Mutex

	// lockWaiters counts GetForUpdate calls that asked for a row lock.
	lockWaiters atomic.Int32
	// onRowLocked, when set, runs right after a row lock is acquired.
	onRowLocked func(id kernel.UUID)
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		customers: map[kernel.UUID]customer.Customer{},
		orders:    map[kernel.UUID]order.Order{},
		rows:      map[kernel.UUID]*sync.Mutex{},
	}
}

func (s *memoryStore) Create() commands.UoW {
	return &memoryUoW{store: s}
}

func (s *memoryStore) row(id kernel.UUID) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.rows[id]
	if !ok {
		m = &sync.Mutex{}
		s.rows[id] = m
	}
	return m
}

func (s *memoryStore) orderFactory() commands.OrderUoWFactory {
	return orderUoWFactoryFunc(func() commands.OrderUoW { return s.Create() })
}

func (s *memoryStore) customerFactory() commands.CustomerUoWFactory {
	return customerUoWFactoryFunc(func() commands.CustomerUoW { return s.Create() })
}

type orderUoWFactoryFunc func() commands.OrderUoW

func (f orderUoWFactoryFunc) Create() commands.OrderUoW { return f() }

type customerUoWFactoryFunc func() commands.CustomerUoW

func (f customerUoWFactoryFunc) Create() commands.CustomerUoW { return f() }

type memoryUoW struct {
	store *memoryStore
	held  []*sync.Mutex
}

func (u *memoryUoW) Begin(context.Context) error { return nil }

func (u *memoryUoW) Commit(context.Context) error {
	u.unlock()
	return nil
}

func (u *memoryUoW) Rollback(context.Context) error {
	u.unlock()
	return nil
}

func (u *memoryUoW) unlock() {
	for _, m := range u.held {
		m.Unlock()
	}
	u.held = nil
}

func (u *memoryUoW) CustomerRepository() ports.CustomerRepository {
	return memoryCustomers{store: u.store}
}

func (u *memoryUoW) OrderRepository() ports.OrderRepository {
	return memoryOrders{store: u.store, uow: u}
}

type memoryCustomers struct {
	store *memoryStore
}

func (r memoryCustomers) Add(_ context.Context, c *customer.Customer) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, existing := range r.store.customers {
		if existing.Code() == c.Code() {
			return errs.NewConflictError("code", c.Code().String())
		}
		if c.Email() != nil && existing.Email() != nil && *existing.Email() == *c.Email() {
			return errs.NewConflictError("email", *c.Email())
		}
	}
	r.store.customers[c.ID()] = *c
	return nil
}

func (r memoryCustomers) Update(_ context.Context, c *customer.Customer) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.customers[c.ID()]; !ok {
		return errs.NewObjectNotFoundError("id", c.ID())
	}
	r.store.customers[c.ID()] = *c
	return nil
}

func (r memoryCustomers) Get(_ context.Context, id kernel.UUID) (*customer.Customer, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	c, ok := r.store.customers[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("id", id)
	}
	return &c, nil
}

func (r memoryCustomers) Delete(_ context.Context, id kernel.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.customers[id]; !ok {
		return errs.NewObjectNotFoundError("id", id)
	}
	delete(r.store.customers, id)
	for orderID, o := range r.store.orders {
		if o.CustomerID() == id {
			delete(r.store.orders, orderID)
		}
	}
	return nil
}

func (r memoryCustomers) EmailExists(_ context.Context, email string) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, c := range r.store.customers {
		if c.Email() != nil && *c.Email() == email {
			return true, nil
		}
	}
	return false, nil
}

type memoryOrders struct {
	store *memoryStore
	uow   *memoryUoW
}

func (r memoryOrders) Add(_ context.Context, o *order.Order) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, existing := range r.store.orders {
		if existing.Number() == o.Number() {
			return errs.NewConflictError("order_number", o.Number().String())
		}
	}
	r.store.orders[o.ID()] = *o
	return nil
}

func (r memoryOrders) Update(_ context.Context, o *order.Order) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.orders[o.ID()]; !ok {
		return errs.NewObjectNotFoundError("id", o.ID())
	}
	r.store.orders[o.ID()] = *o
	return nil
}

func (r memoryOrders) Get(_ context.Context, id kernel.UUID) (*order.Order, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	o, ok := r.store.orders[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("id", id)
	}
	return &o, nil
}

func (r memoryOrders) GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	row := r.store.row(id)
	r.store.lockWaiters.Add(1)
	row.Lock()
	if r.uow == nil {
		defer row.Unlock()
	} else {
		r.uow.held = append(r.uow.held, row)
	}
	if r.store.onRowLocked != nil {
		r.store.onRowLocked(id)
	}
	return r.Get(ctx, id)
}

func (r memoryOrders) Delete(_ context.Context, id kernel.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.orders[id]; !ok {
		return errs.NewObjectNotFoundError("id", id)
	}
	delete(r.store.orders, id)
	return nil
}

func (r memoryOrders) GetUnnotified(_ context.Context, from, to time.Time, limit int) ([]*order.Order, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var result []*order.Order
	for _, o := range r.store.orders {
		if o.SMSSent() || o.Status() == order.Cancelled || o.CreatedAt().Before(from) || o.CreatedAt().After(to) {
			continue
		}
		copied := o
		result = append(result, &copied)
		if len(result) == limit {
			break
		}
	}
	return result, nil
}

// recordingQueue captures enqueued tasks.
type recordingQueue struct {
	mu    sync.Mutex
	tasks []notification.Task
}

func (q *recordingQueue) Enqueue(_ context.Context, task notification.Task) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.tasks = append(q.tasks, task)
	return nil
}

func (q *recordingQueue) drain() []notification.Task {
	q.mu.Lock()
	defer q.mu.Unlock()
	tasks := q.tasks
	q.tasks = nil
	return tasks
}

type sentMessage struct {
	phone   string
	message string
}

// recordingSender accepts every message.
type recordingSender struct {
	mu   sync.Mutex
	sent []sentMessage
}

func (s *recordingSender) Send(_ context.Context, phone kernel.PhoneNumber, message string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, sentMessage{phone: phone.String(), message: message})
	return true, nil
}

// memoryDedup fails on a cancelled context, the way a network store does.
type memoryDedup struct {
	mu      sync.Mutex
	claimed map[kernel.UUID]struct{}
}

func (d *memoryDedup) Claim(ctx context.Context, id kernel.UUID, _ time.Duration) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.claimed == nil {
		d.claimed = map[kernel.UUID]struct{}{}
	}
	if _, ok := d.claimed[id]; ok {
		return false, nil
	}
	d.claimed[id] = struct{}{}
	return true, nil
}

func (d *memoryDedup) Complete(ctx context.Context, _ kernel.UUID, _ time.Duration) error {
	return ctx.Err()
}

func (d *memoryDedup) Release(ctx context.Context, id kernel.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.claimed, id)
	return nil
}
