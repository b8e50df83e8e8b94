package repositories

import (
	"sort"
	"sync"

	"pedidos/internal/models"
)

// MockOrderRepository is an in-memory implementation of OrderRepository.
type MockOrderRepository struct {
	orders map[uint]models.Order
	items  map[uint]models.OrderItem
	nextID uint
	mu     sync.RWMutex
}

// NewMockOrderRepository creates a new instance of MockOrderRepository.
func NewMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{
		orders: make(map[uint]models.Order),
		items:  make(map[uint]models.OrderItem),
		nextID: 1,
	}
}

// Create adds a new order, assigning it an ID.
func (r *MockOrderRepository) Create(order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if order.ID == 0 {
		order.ID = r.nextID
		r.nextID++
	}
	r.orders[order.ID] = *order
	return nil
}

// GetByID returns an order with its items attached.
func (r *MockOrderRepository) GetByID(id uint) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, ErrRecordNotFound
	}
	order.Items = r.itemsOf(id)
	return &order, nil
}

// UpdateStatus updates the status of an order.
func (r *MockOrderRepository) UpdateStatus(id uint, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return ErrRecordNotFound
	}
	order.Status = status
	r.orders[id] = order
	return nil
}

// UpdatePrice updates the total price of an order.
func (r *MockOrderRepository) UpdatePrice(id uint, price float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return ErrRecordNotFound
	}
	order.Price = price
	r.orders[id] = order
	return nil
}

// AddItem inserts a new order item, assigning it an ID.
func (r *MockOrderRepository) AddItem(item *models.OrderItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if item.ID == 0 {
		item.ID = r.nextID
		r.nextID++
	}
	r.items[item.ID] = *item
	return nil
}

// GetItemByID returns an order item by its ID.
func (r *MockOrderRepository) GetItemByID(id uint) (*models.OrderItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[id]
	if !ok {
		return nil, ErrRecordNotFound
	}
	return &item, nil
}

// RemoveItem deletes an order item by its ID.
func (r *MockOrderRepository) RemoveItem(id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return ErrRecordNotFound
	}
	delete(r.items, id)
	return nil
}

// ListAll returns all orders with their items, ordered by ID.
func (r *MockOrderRepository) ListAll() ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	orders := make([]models.Order, 0, len(r.orders))
	for _, order := range r.orders {
		order.Items = r.itemsOf(order.ID)
		orders = append(orders, order)
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].ID < orders[j].ID })
	return orders, nil
}

// ListByUser returns a user's orders, most recent first, capped at limit
// when limit is positive.
func (r *MockOrderRepository) ListByUser(userID uint, limit int) ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var orders []models.Order
	for _, order := range r.orders {
		if order.UserID == userID {
			order.Items = r.itemsOf(order.ID)
			orders = append(orders, order)
		}
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].ID > orders[j].ID })
	if limit > 0 && len(orders) > limit {
		orders = orders[:limit]
	}
	return orders, nil
}

// itemsOf collects the items of an order. Callers must hold the lock.
func (r *MockOrderRepository) itemsOf(orderID uint) []models.OrderItem {
	var items []models.OrderItem
	for _, item := range r.items {
		if item.OrderID == orderID {
			items = append(items, item)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items
}
