package services

import (
	"encoding/json"
	"log"
	"time"

	"pedidos/internal/models"
	"pedidos/internal/repositories"
	"pedidos/pkg/rabbitmq"

	"github.com/google/uuid"
)

// OrderService handles business logic related to orders: creation, item
// mutation with total recomputation, status transitions and listing.
type OrderService struct {
	orderRepo repositories.OrderRepository
	auth      *AuthService
	mqClient  *rabbitmq.Client
}

// nonAdminListLimit caps the default listing for non-admin callers. An
// explicit listing target lifts the cap.
const nonAdminListLimit = 10

// NewOrderService creates a new OrderService.
func NewOrderService(orderRepo repositories.OrderRepository, auth *AuthService, mqClient *rabbitmq.Client) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		auth:      auth,
		mqClient:  mqClient,
	}
}

// CreateOrder creates a PENDING order for ownerID. The initial price is
// taken as supplied; item operations overwrite it via recomputation.
func (s *OrderService) CreateOrder(acting *models.User, ownerID uint, price float64) (*models.Order, error) {
	if !s.auth.Authorize(acting, ownerID) {
		return nil, ErrNotPermitted
	}

	order := &models.Order{
		UserID: ownerID,
		Status: models.StatusPending,
		Price:  price,
	}
	if err := s.orderRepo.Create(order); err != nil {
		return nil, err
	}

	s.publishEvent("order.created", order)
	return order, nil
}

// GetOrder returns an order with its items, owner-or-admin only.
func (s *OrderService) GetOrder(acting *models.User, orderID uint) (*models.Order, error) {
	order, err := s.loadAuthorized(acting, orderID)
	if err != nil {
		return nil, err
	}
	return order, nil
}

// AddItem attaches an item to an order and recomputes the total over all
// attached items. Returns the new total.
func (s *OrderService) AddItem(acting *models.User, orderID uint, item models.OrderItem) (float64, error) {
	order, err := s.loadAuthorized(acting, orderID)
	if err != nil {
		return 0, err
	}

	item.ID = 0
	item.OrderID = order.ID
	if err := s.orderRepo.AddItem(&item); err != nil {
		return 0, err
	}

	total, err := s.recalculateTotal(order.ID)
	if err != nil {
		return 0, err
	}
	order.Price = total
	s.publishEvent("order.item_added", order)
	return total, nil
}

// RemoveItem deletes an item, recomputes the parent order's total over
// the remaining items and returns the new total with an order snapshot.
func (s *OrderService) RemoveItem(acting *models.User, itemID uint) (float64, *models.Order, error) {
	item, err := s.orderRepo.GetItemByID(itemID)
	if err != nil {
		return 0, nil, ErrNotFound
	}

	order, err := s.loadAuthorized(acting, item.OrderID)
	if err != nil {
		return 0, nil, err
	}

	if err := s.orderRepo.RemoveItem(item.ID); err != nil {
		return 0, nil, err
	}

	total, err := s.recalculateTotal(order.ID)
	if err != nil {
		return 0, nil, err
	}

	snapshot, err := s.orderRepo.GetByID(order.ID)
	if err != nil {
		return 0, nil, err
	}
	s.publishEvent("order.item_removed", snapshot)
	return total, snapshot, nil
}

// CancelOrder sets the order status to CANCELED. Transitions are not
// guarded: any current status is overwritten, re-cancel included.
func (s *OrderService) CancelOrder(acting *models.User, orderID uint) (*models.Order, error) {
	return s.setStatus(acting, orderID, models.StatusCanceled, "order.canceled")
}

// FinishOrder sets the order status to FINISHED, unguarded like cancel.
func (s *OrderService) FinishOrder(acting *models.User, orderID uint) (*models.Order, error) {
	return s.setStatus(acting, orderID, models.StatusFinished, "order.finished")
}

func (s *OrderService) setStatus(acting *models.User, orderID uint, status, event string) (*models.Order, error) {
	order, err := s.loadAuthorized(acting, orderID)
	if err != nil {
		return nil, err
	}

	if err := s.orderRepo.UpdateStatus(order.ID, status); err != nil {
		return nil, err
	}
	order.Status = status
	s.publishEvent(event, order)
	return order, nil
}

// ListOrders lists orders for the acting user. Admins see everything, or
// one user's orders uncapped when targetUserID is given. Non-admins see
// only their own orders regardless of target: capped at the 10 most
// recent when no target is given, uncapped when one is.
func (s *OrderService) ListOrders(acting *models.User, targetUserID *uint) ([]models.Order, error) {
	if acting.Admin {
		if targetUserID != nil {
			return s.orderRepo.ListByUser(*targetUserID, 0)
		}
		return s.orderRepo.ListAll()
	}

	limit := nonAdminListLimit
	if targetUserID != nil {
		limit = 0
	}
	return s.orderRepo.ListByUser(acting.ID, limit)
}

// loadAuthorized fetches an order and enforces the owner-or-admin rule.
func (s *OrderService) loadAuthorized(acting *models.User, orderID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, ErrNotFound
	}
	if !s.auth.Authorize(acting, order.UserID) {
		return nil, ErrNotPermitted
	}
	return order, nil
}

// recalculateTotal rereads the order and persists the sum of its items.
func (s *OrderService) recalculateTotal(orderID uint) (float64, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return 0, err
	}
	total := order.Total()
	if err := s.orderRepo.UpdatePrice(orderID, total); err != nil {
		return 0, err
	}
	return total, nil
}

// publishEvent emits an order event to RabbitMQ. Publishing is
// best-effort: failures are logged and never fail the request.
func (s *OrderService) publishEvent(event string, order *models.Order) {
	if s.mqClient == nil {
		return
	}

	body, err := json.Marshal(map[string]interface{}{
		"event_id": uuid.New().String(),
		"event":    event,
		"order_id": order.ID,
		"user_id":  order.UserID,
		"status":   order.Status,
		"price":    order.Price,
		"time":     time.Now().Format(time.RFC3339),
	})
	if err != nil {
		log.Printf("Failed to marshal %s event for order %d: %v", event, order.ID, err)
		return
	}
	if err := s.mqClient.Publish(event, body); err != nil {
		log.Printf("Warning: failed to publish %s event for order %d: %v", event, order.ID, err)
	}
}
