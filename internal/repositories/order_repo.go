package repositories

import (
	"errors"

	"pedidos/internal/models"
)

// ErrRecordNotFound is returned by repositories when a lookup matches no
// live record.
var ErrRecordNotFound = errors.New("record not found")

// OrderRepository defines the interface for order and order-item data access.
type OrderRepository interface {
	Create(order *models.Order) error
	// GetByID returns the order with its items loaded.
	GetByID(id uint) (*models.Order, error)
	UpdateStatus(id uint, status string) error
	UpdatePrice(id uint, price float64) error

	AddItem(item *models.OrderItem) error
	GetItemByID(id uint) (*models.OrderItem, error)
	RemoveItem(id uint) error

	ListAll() ([]models.Order, error)
	// ListByUser returns the user's orders; limit <= 0 means no cap.
	ListByUser(userID uint, limit int) ([]models.Order, error)
}
