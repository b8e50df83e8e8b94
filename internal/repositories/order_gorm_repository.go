package repositories

import (
	"errors"
	"fmt"

	"pedidos/internal/models"

	"gorm.io/gorm"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{
		db: db,
	}
}

// Create creates a new order in the database.
func (r *GORMOrderRepository) Create(order *models.Order) error {
	if err := r.db.Create(order).Error; err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

// GetByID retrieves a single order with its items preloaded.
func (r *GORMOrderRepository) GetByID(id uint) (*models.Order, error) {
	var order models.Order
	if err := r.db.Preload("Items").First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to get order by ID %d: %w", id, err)
	}
	return &order, nil
}

// UpdateStatus updates the status of an order.
func (r *GORMOrderRepository) UpdateStatus(id uint, status string) error {
	res := r.db.Model(&models.Order{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return fmt.Errorf("failed to update status of order %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// UpdatePrice persists a recomputed order total.
func (r *GORMOrderRepository) UpdatePrice(id uint, price float64) error {
	res := r.db.Model(&models.Order{}).Where("id = ?", id).Update("price", price)
	if res.Error != nil {
		return fmt.Errorf("failed to update price of order %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// AddItem inserts a new order item.
func (r *GORMOrderRepository) AddItem(item *models.OrderItem) error {
	if err := r.db.Create(item).Error; err != nil {
		return fmt.Errorf("failed to add item to order %d: %w", item.OrderID, err)
	}
	return nil
}

// GetItemByID retrieves a single order item by its ID.
func (r *GORMOrderRepository) GetItemByID(id uint) (*models.OrderItem, error) {
	var item models.OrderItem
	if err := r.db.First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to get order item by ID %d: %w", id, err)
	}
	return &item, nil
}

// RemoveItem deletes an order item by its ID.
func (r *GORMOrderRepository) RemoveItem(id uint) error {
	res := r.db.Delete(&models.OrderItem{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to remove order item %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// ListAll retrieves every order with items preloaded.
func (r *GORMOrderRepository) ListAll() ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.Preload("Items").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// ListByUser retrieves a user's orders, most recent first. A limit of
// zero or less disables the cap.
func (r *GORMOrderRepository) ListByUser(userID uint, limit int) ([]models.Order, error) {
	var orders []models.Order
	q := r.db.Preload("Items").Where("user_id = ?", userID).Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to list orders for user %d: %w", userID, err)
	}
	return orders, nil
}
