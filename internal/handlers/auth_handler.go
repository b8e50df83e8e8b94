package handlers

import (
	"fmt"
	"log"

	"pedidos/internal/middleware"
	"pedidos/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	authService *services.AuthService
	validate    *validator.Validate
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validate:    validator.New(),
	}
}

// RegisterPublicRoutes registers signup and signin. These must be added
// before the token-guarded group so the guard does not shadow them.
func (h *AuthHandler) RegisterPublicRoutes(router fiber.Router) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/signup", h.HandleSignup)
	authRoutes.Post("/signin", h.HandleSignin)
	authRoutes.Post("/signin-test", h.HandleSigninForm)
}

// RegisterProtectedRoutes registers the routes requiring a bearer token.
func (h *AuthHandler) RegisterProtectedRoutes(router fiber.Router) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/refresh", h.HandleRefresh)
	authRoutes.Post("/create-admin", h.HandleCreateAdmin)
}

// UserRequest represents the request body for signup and create-admin.
type UserRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
	Active   *bool  `json:"active"`
}

func (r *UserRequest) active() bool {
	if r.Active == nil {
		return true
	}
	return *r.Active
}

// HandleSignup handles public registration. The created user is never
// an admin, whatever the payload says.
func (h *AuthHandler) HandleSignup(c *fiber.Ctx) error {
	req, err := h.parseUserRequest(c)
	if req == nil {
		return err
	}

	if _, err := h.authService.Signup(req.Name, req.Email, req.Password, req.active()); err != nil {
		log.Printf("Error registering user: %v", err)
		return mapServiceError(c, err, "Could not register user")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User created successfully",
	})
}

// HandleCreateAdmin registers an admin user. Admin-only.
func (h *AuthHandler) HandleCreateAdmin(c *fiber.Ctx) error {
	acting := middleware.CurrentUser(c)

	req, err := h.parseUserRequest(c)
	if req == nil {
		return err
	}

	if _, err := h.authService.CreateAdmin(acting, req.Name, req.Email, req.Password, req.active()); err != nil {
		log.Printf("Error creating admin user: %v", err)
		return mapServiceError(c, err, "Could not create admin user")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Admin user created successfully",
	})
}

// SigninRequest represents the request body for signin.
type SigninRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// HandleSignin authenticates by email and password and issues an access
// and a refresh token.
func (h *AuthHandler) HandleSignin(c *fiber.Ctx) error {
	var req SigninRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing signin request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	pair, err := h.authService.Signin(req.Email, req.Password)
	if err != nil {
		log.Printf("Error during signin for %s: %v", req.Email, err)
		return mapServiceError(c, err, "Authentication failed")
	}
	return c.JSON(pair)
}

// HandleSigninForm authenticates from a form-encoded body with
// "username" (the email) and "password" fields. Only an access token is
// issued on this path.
func (h *AuthHandler) HandleSigninForm(c *fiber.Ctx) error {
	email := c.FormValue("username")
	password := c.FormValue("password")
	if email == "" || password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "username and password are required",
		})
	}

	pair, err := h.authService.Signin(email, password)
	if err != nil {
		log.Printf("Error during form signin for %s: %v", email, err)
		return mapServiceError(c, err, "Authentication failed")
	}
	return c.JSON(fiber.Map{
		"access_token": pair.AccessToken,
		"token_type":   pair.TokenType,
	})
}

// HandleRefresh issues a fresh access token for the authenticated user.
func (h *AuthHandler) HandleRefresh(c *fiber.Ctx) error {
	acting := middleware.CurrentUser(c)

	accessToken, err := h.authService.Refresh(acting)
	if err != nil {
		log.Printf("Error refreshing token for user %d: %v", acting.ID, err)
		return mapServiceError(c, err, "Could not refresh token")
	}
	return c.JSON(fiber.Map{
		"access_token": accessToken,
		"token_type":   "Bearer",
	})
}

func (h *AuthHandler) parseUserRequest(c *fiber.Ctx) (*UserRequest, error) {
	var req UserRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing user request body: %v", err)
		return nil, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return nil, validationFailed(c, err)
	}
	return &req, nil
}

// validationFailed renders a validator error as a 400 with per-field
// messages.
func validationFailed(c *fiber.Ctx, err error) error {
	validationErrors := err.(validator.ValidationErrors)
	errorMessages := make(map[string]string)
	for _, e := range validationErrors {
		errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Validation failed",
		"errors":  errorMessages,
	})
}
