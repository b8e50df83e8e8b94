package services_test

import (
	"fmt"
	"testing"

	"pedidos/internal/models"
	"pedidos/internal/repositories"
	"pedidos/internal/services"

	"github.com/stretchr/testify/assert"
)

func newTestOrderService() (*services.OrderService, *repositories.MockOrderRepository) {
	orderRepo := repositories.NewMockOrderRepository()
	authService := newTestAuthService(repositories.NewMockUserRepository())
	// nil RabbitMQ client: event publishing is skipped.
	return services.NewOrderService(orderRepo, authService, nil), orderRepo
}

func TestOrderService_CreateOrder(t *testing.T) {
	orderService, _ := newTestOrderService()

	owner := &models.User{ID: 1}
	admin := &models.User{ID: 2, Admin: true}
	stranger := &models.User{ID: 3}

	order, err := orderService.CreateOrder(owner, owner.ID, 0)
	assert.NoError(t, err)
	assert.Equal(t, models.StatusPending, order.Status)
	assert.Equal(t, owner.ID, order.UserID)
	assert.Equal(t, 0.0, order.Price)

	// Admins may create orders for anyone; strangers may not.
	_, err = orderService.CreateOrder(admin, owner.ID, 10)
	assert.NoError(t, err)

	_, err = orderService.CreateOrder(stranger, owner.ID, 10)
	assert.ErrorIs(t, err, services.ErrNotPermitted)
}

func TestOrderService_AddAndRemoveItem(t *testing.T) {
	orderService, orderRepo := newTestOrderService()

	owner := &models.User{ID: 1}
	order, err := orderService.CreateOrder(owner, owner.ID, 0)
	assert.NoError(t, err)

	total, err := orderService.AddItem(owner, order.ID, models.OrderItem{
		Name:   "X",
		Price:  10,
		Amount: 3,
	})
	assert.NoError(t, err)
	assert.Equal(t, 30.0, total)

	total, err = orderService.AddItem(owner, order.ID, models.OrderItem{
		Name:   "Y",
		Price:  2.5,
		Amount: 2,
	})
	assert.NoError(t, err)
	assert.Equal(t, 35.0, total)

	// Price stays derived from the live items after every mutation.
	stored, err := orderRepo.GetByID(order.ID)
	assert.NoError(t, err)
	assert.Equal(t, 35.0, stored.Price)
	assert.Len(t, stored.Items, 2)

	total, snapshot, err := orderService.RemoveItem(owner, stored.Items[0].ID)
	assert.NoError(t, err)
	assert.Equal(t, 5.0, total)
	assert.Equal(t, 5.0, snapshot.Price)
	assert.Len(t, snapshot.Items, 1)

	total, snapshot, err = orderService.RemoveItem(owner, stored.Items[1].ID)
	assert.NoError(t, err)
	assert.Equal(t, 0.0, total)
	assert.Empty(t, snapshot.Items)
}

func TestOrderService_ItemAuthorization(t *testing.T) {
	orderService, orderRepo := newTestOrderService()

	owner := &models.User{ID: 1}
	stranger := &models.User{ID: 2}
	admin := &models.User{ID: 3, Admin: true}

	order, err := orderService.CreateOrder(owner, owner.ID, 0)
	assert.NoError(t, err)

	_, err = orderService.AddItem(stranger, order.ID, models.OrderItem{Name: "X", Price: 1, Amount: 1})
	assert.ErrorIs(t, err, services.ErrNotPermitted)

	_, err = orderService.AddItem(admin, order.ID, models.OrderItem{Name: "X", Price: 1, Amount: 1})
	assert.NoError(t, err)

	stored, err := orderRepo.GetByID(order.ID)
	assert.NoError(t, err)

	// Removal authorizes against the parent order's owner.
	_, _, err = orderService.RemoveItem(stranger, stored.Items[0].ID)
	assert.ErrorIs(t, err, services.ErrNotPermitted)

	_, _, err = orderService.RemoveItem(owner, stored.Items[0].ID)
	assert.NoError(t, err)
}

func TestOrderService_NotFound(t *testing.T) {
	orderService, _ := newTestOrderService()
	owner := &models.User{ID: 1}

	_, err := orderService.GetOrder(owner, 12345)
	assert.ErrorIs(t, err, services.ErrNotFound)

	_, err = orderService.AddItem(owner, 12345, models.OrderItem{Name: "X", Price: 1})
	assert.ErrorIs(t, err, services.ErrNotFound)

	_, _, err = orderService.RemoveItem(owner, 12345)
	assert.ErrorIs(t, err, services.ErrNotFound)

	_, err = orderService.CancelOrder(owner, 12345)
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestOrderService_StatusTransitions(t *testing.T) {
	orderService, _ := newTestOrderService()

	owner := &models.User{ID: 1}
	stranger := &models.User{ID: 2}
	order, err := orderService.CreateOrder(owner, owner.ID, 0)
	assert.NoError(t, err)

	canceled, err := orderService.CancelOrder(owner, order.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.StatusCanceled, canceled.Status)

	// Transitions are unguarded: a canceled order can still be finished,
	// and re-finishing just re-sets the same value.
	finished, err := orderService.FinishOrder(owner, order.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.StatusFinished, finished.Status)

	finished, err = orderService.FinishOrder(owner, order.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.StatusFinished, finished.Status)

	_, err = orderService.CancelOrder(stranger, order.ID)
	assert.ErrorIs(t, err, services.ErrNotPermitted)
}

func TestOrderService_GetOrder(t *testing.T) {
	orderService, _ := newTestOrderService()

	owner := &models.User{ID: 1}
	stranger := &models.User{ID: 2}
	admin := &models.User{ID: 3, Admin: true}

	order, err := orderService.CreateOrder(owner, owner.ID, 0)
	assert.NoError(t, err)
	_, err = orderService.AddItem(owner, order.ID, models.OrderItem{Name: "X", Price: 10, Amount: 3})
	assert.NoError(t, err)

	fetched, err := orderService.GetOrder(owner, order.ID)
	assert.NoError(t, err)
	assert.Len(t, fetched.Items, 1)

	_, err = orderService.GetOrder(stranger, order.ID)
	assert.ErrorIs(t, err, services.ErrNotPermitted)

	fetched, err = orderService.GetOrder(admin, order.ID)
	assert.NoError(t, err)
	assert.Equal(t, owner.ID, fetched.UserID)
}

func TestOrderService_ListOrders(t *testing.T) {
	orderService, _ := newTestOrderService()

	owner := &models.User{ID: 1}
	other := &models.User{ID: 2}
	admin := &models.User{ID: 3, Admin: true}

	for i := 0; i < 12; i++ {
		_, err := orderService.CreateOrder(owner, owner.ID, float64(i))
		assert.NoError(t, err, fmt.Sprintf("order %d", i))
	}
	_, err := orderService.CreateOrder(other, other.ID, 0)
	assert.NoError(t, err)

	// Default non-admin listing is capped at the 10 most recent.
	orders, err := orderService.ListOrders(owner, nil)
	assert.NoError(t, err)
	assert.Len(t, orders, 10)
	assert.Greater(t, orders[0].ID, orders[1].ID)

	// An explicit target lifts the cap but never the ownership rule: a
	// non-admin asking for another user still gets their own orders.
	target := other.ID
	orders, err = orderService.ListOrders(owner, &target)
	assert.NoError(t, err)
	assert.Len(t, orders, 12)
	for _, o := range orders {
		assert.Equal(t, owner.ID, o.UserID)
	}

	// Admins see everything, or one user's orders uncapped.
	orders, err = orderService.ListOrders(admin, nil)
	assert.NoError(t, err)
	assert.Len(t, orders, 13)

	orders, err = orderService.ListOrders(admin, &target)
	assert.NoError(t, err)
	assert.Len(t, orders, 1)
	assert.Equal(t, other.ID, orders[0].UserID)
}
