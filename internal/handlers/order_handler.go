package handlers

import (
	"fmt"
	"log"

	"pedidos/internal/middleware"
	"pedidos/internal/models"
	"pedidos/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	service  *services.OrderService
	validate *validator.Validate
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService) *OrderHandler {
	return &OrderHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the order routes. All of them require a
// bearer token.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	orderRoutes := router.Group("/orders")
	orderRoutes.Post("/order", h.HandleCreateOrder)
	orderRoutes.Get("/order/:id", h.HandleGetOrder)
	orderRoutes.Post("/order/cancel/:id", h.HandleCancelOrder)
	orderRoutes.Post("/order/finish/:id", h.HandleFinishOrder)
	orderRoutes.Post("/order/add-item/:id", h.HandleAddItem)
	orderRoutes.Post("/order/remove-item/:itemId", h.HandleRemoveItem)
	orderRoutes.Get("/list", h.HandleListOrders)
	orderRoutes.Get("/list/:userId", h.HandleListOrdersByUser)
}

// OrderRequest represents the request body for order creation.
type OrderRequest struct {
	UserID uint    `json:"user_id" validate:"required"`
	Price  float64 `json:"price" validate:"gte=0"`
}

// HandleCreateOrder creates a PENDING order for the requested owner,
// owner-or-admin only.
func (h *OrderHandler) HandleCreateOrder(c *fiber.Ctx) error {
	acting := middleware.CurrentUser(c)

	var req OrderRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing order request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	order, err := h.service.CreateOrder(acting, req.UserID, req.Price)
	if err != nil {
		log.Printf("Error creating order: %v", err)
		return mapServiceError(c, err, "Could not create order")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":  fmt.Sprintf("Order created successfully. Order ID: %d", order.ID),
		"order_id": order.ID,
	})
}

// HandleGetOrder returns a single order with its items.
func (h *OrderHandler) HandleGetOrder(c *fiber.Ctx) error {
	acting := middleware.CurrentUser(c)

	orderID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Order ID must be an integer",
		})
	}

	order, err := h.service.GetOrder(acting, uint(orderID))
	if err != nil {
		log.Printf("Error getting order %d: %v", orderID, err)
		return mapServiceError(c, err, "Could not retrieve order")
	}
	return c.JSON(fiber.Map{"order": order})
}

// HandleCancelOrder sets the order status to CANCELED.
func (h *OrderHandler) HandleCancelOrder(c *fiber.Ctx) error {
	return h.handleStatusChange(c, h.service.CancelOrder, "canceled")
}

// HandleFinishOrder sets the order status to FINISHED.
func (h *OrderHandler) HandleFinishOrder(c *fiber.Ctx) error {
	return h.handleStatusChange(c, h.service.FinishOrder, "finished")
}

func (h *OrderHandler) handleStatusChange(c *fiber.Ctx, change func(*models.User, uint) (*models.Order, error), verb string) error {
	acting := middleware.CurrentUser(c)

	orderID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Order ID must be an integer",
		})
	}

	order, err := change(acting, uint(orderID))
	if err != nil {
		log.Printf("Error updating status of order %d: %v", orderID, err)
		return mapServiceError(c, err, "Could not update order status")
	}
	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Order %d %s successfully", order.ID, verb),
		"order":   order,
	})
}

// ItemRequest represents the request body for adding an item.
type ItemRequest struct {
	Name        string  `json:"name" validate:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" validate:"required"`
	Amount      int     `json:"amount" validate:"gte=0"`
}

// HandleAddItem attaches an item to an order and returns the recomputed
// total.
func (h *OrderHandler) HandleAddItem(c *fiber.Ctx) error {
	acting := middleware.CurrentUser(c)

	orderID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Order ID must be an integer",
		})
	}

	var req ItemRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing item request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	total, err := h.service.AddItem(acting, uint(orderID), models.OrderItem{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Amount:      req.Amount,
	})
	if err != nil {
		log.Printf("Error adding item to order %d: %v", orderID, err)
		return mapServiceError(c, err, "Could not add item to order")
	}

	return c.JSON(fiber.Map{
		"message":     fmt.Sprintf("Item added to order %d successfully", orderID),
		"total_price": total,
	})
}

// HandleRemoveItem deletes an item and returns the parent order's
// recomputed total with an order snapshot.
func (h *OrderHandler) HandleRemoveItem(c *fiber.Ctx) error {
	acting := middleware.CurrentUser(c)

	itemID, err := c.ParamsInt("itemId")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Item ID must be an integer",
		})
	}

	total, order, err := h.service.RemoveItem(acting, uint(itemID))
	if err != nil {
		log.Printf("Error removing item %d: %v", itemID, err)
		return mapServiceError(c, err, "Could not remove item from order")
	}

	return c.JSON(fiber.Map{
		"message":     fmt.Sprintf("Item removed from order %d successfully", order.ID),
		"order_price": total,
		"order":       order,
	})
}

// HandleListOrders lists orders. Admins see everything; everyone else
// sees their own 10 most recent.
func (h *OrderHandler) HandleListOrders(c *fiber.Ctx) error {
	acting := middleware.CurrentUser(c)

	orders, err := h.service.ListOrders(acting, nil)
	if err != nil {
		log.Printf("Error listing orders: %v", err)
		return mapServiceError(c, err, "Could not retrieve orders")
	}
	return c.JSON(fiber.Map{"orders": orders})
}

// HandleListOrdersByUser lists orders for an explicit user. Admins can
// target any user; non-admins always get their own orders, uncapped.
func (h *OrderHandler) HandleListOrdersByUser(c *fiber.Ctx) error {
	acting := middleware.CurrentUser(c)

	userID, err := c.ParamsInt("userId")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "User ID must be an integer",
		})
	}

	target := uint(userID)
	orders, err := h.service.ListOrders(acting, &target)
	if err != nil {
		log.Printf("Error listing orders for user %d: %v", userID, err)
		return mapServiceError(c, err, "Could not retrieve orders")
	}
	return c.JSON(fiber.Map{"orders": orders})
}
