package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"userorders/internal/models"
	"userorders/internal/repositories"
	"userorders/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// UserHandler handles HTTP requests for users and their orders.
type UserHandler struct {
	service  *services.UserService
	validate *validator.Validate
	log      *zap.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service *services.UserService, log *zap.Logger) *UserHandler {
	return &UserHandler{
		service:  service,
		validate: validator.New(),
		log:      log,
	}
}

// RegisterRoutes registers the user routes with the Fiber app.
func (h *UserHandler) RegisterRoutes(router fiber.Router) {
	userRoutes := router.Group("/users")
	userRoutes.Post("/", h.HandleCreateUser)
	userRoutes.Get("/", h.HandleGetUsers)
	userRoutes.Get("/:userId", h.HandleGetUser)
	userRoutes.Put("/:userId", h.HandleUpdateUser)
	userRoutes.Delete("/:userId", h.HandleDeleteUser)
	userRoutes.Put("/:userId/orders", h.HandleAddOrder)
	userRoutes.Get("/:userId/orders", h.HandleGetOrders)
	userRoutes.Get("/:userId/orders/total-price", h.HandleGetTotalOrderPrice)
}

// HandleCreateUser creates a new user from a full, validated payload.
func (h *UserHandler) HandleCreateUser(c *fiber.Ctx) error {
	var req models.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return h.respondInvalidBody(c, err)
	}

	if err := h.validate.Struct(&req); err != nil {
		return h.respondValidationError(c, err)
	}

	view, err := h.service.CreateUser(c.Context(), &req)
	if err != nil {
		return h.respondServiceError(c, err, "create user")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "User created successfully!",
		"data":    view,
	})
}

// HandleGetUsers retrieves the list projection of all users.
func (h *UserHandler) HandleGetUsers(c *fiber.Ctx) error {
	users, err := h.service.GetAllUsers(c.Context())
	if err != nil {
		return h.respondServiceError(c, err, "list users")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Users fetched successfully!",
		"data":    users,
	})
}

// HandleGetUser retrieves a single user by userId.
func (h *UserHandler) HandleGetUser(c *fiber.Ctx) error {
	userID, err := c.ParamsInt("userId")
	if err != nil {
		return h.respondInvalidUserID(c)
	}

	user, err := h.service.GetUser(c.Context(), userID)
	if err != nil {
		return h.respondServiceError(c, err, "get user")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "User fetched successfully!",
		"data":    user,
	})
}

// HandleUpdateUser applies a partial update to a user. The body is decoded
// strictly: any key outside the recognized update fields rejects the whole
// request.
func (h *UserHandler) HandleUpdateUser(c *fiber.Ctx) error {
	userID, err := c.ParamsInt("userId")
	if err != nil {
		return h.respondInvalidUserID(c)
	}

	dec := json.NewDecoder(bytes.NewReader(c.Body()))
	dec.DisallowUnknownFields()
	var update models.UserUpdate
	if err := dec.Decode(&update); err != nil {
		return h.respondInvalidBody(c, err)
	}

	if err := h.validate.Struct(&update); err != nil {
		return h.respondValidationError(c, err)
	}

	view, err := h.service.UpdateUser(c.Context(), userID, &update)
	if err != nil {
		return h.respondServiceError(c, err, "update user")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "User updated successfully!",
		"data":    view,
	})
}

// HandleDeleteUser hard-deletes a user by userId.
func (h *UserHandler) HandleDeleteUser(c *fiber.Ctx) error {
	userID, err := c.ParamsInt("userId")
	if err != nil {
		return h.respondInvalidUserID(c)
	}

	if err := h.service.DeleteUser(c.Context(), userID); err != nil {
		return h.respondServiceError(c, err, "delete user")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "User deleted successfully!",
		"data":    nil,
	})
}

// HandleAddOrder appends an order to the user's orders sequence.
func (h *UserHandler) HandleAddOrder(c *fiber.Ctx) error {
	userID, err := c.ParamsInt("userId")
	if err != nil {
		return h.respondInvalidUserID(c)
	}

	var req models.OrderRequest
	if err := c.BodyParser(&req); err != nil {
		return h.respondInvalidBody(c, err)
	}

	if err := h.validate.Struct(&req); err != nil {
		return h.respondValidationError(c, err)
	}

	if err := h.service.AddOrder(c.Context(), userID, req.ToOrder()); err != nil {
		return h.respondServiceError(c, err, "add order")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Order created successfully!",
		"data":    nil,
	})
}

// HandleGetOrders retrieves the user's orders.
func (h *UserHandler) HandleGetOrders(c *fiber.Ctx) error {
	userID, err := c.ParamsInt("userId")
	if err != nil {
		return h.respondInvalidUserID(c)
	}

	orders, err := h.service.GetOrders(c.Context(), userID)
	if err != nil {
		return h.respondServiceError(c, err, "get orders")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Orders fetched successfully!",
		"data":    fiber.Map{"orders": orders},
	})
}

// HandleGetTotalOrderPrice computes the total price of the user's orders.
func (h *UserHandler) HandleGetTotalOrderPrice(c *fiber.Ctx) error {
	userID, err := c.ParamsInt("userId")
	if err != nil {
		return h.respondInvalidUserID(c)
	}

	total, err := h.service.GetTotalOrderPrice(c.Context(), userID)
	if err != nil {
		return h.respondServiceError(c, err, "total order price")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Total price calculated successfully!",
		"data":    fiber.Map{"totalPrice": total},
	})
}

// respondValidationError maps validator failures to a 400 with per-field
// detail.
func (h *UserHandler) respondValidationError(c *fiber.Ctx, err error) error {
	errorMessages := make(map[string]string)
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, e := range validationErrors {
			errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success": false,
		"message": "Validation failed",
		"errors":  errorMessages,
	})
}

// respondServiceError maps domain outcomes to client errors and everything
// else to a generic 500. Raw store errors are logged, never echoed into the
// response body.
func (h *UserHandler) respondServiceError(c *fiber.Ctx, err error, action string) error {
	switch {
	case errors.Is(err, repositories.ErrUserNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "User not found",
			"error": fiber.Map{
				"code":        fiber.StatusNotFound,
				"description": "User not found!",
			},
		})
	case errors.Is(err, repositories.ErrDuplicateUser):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"success": false,
			"message": "User already exists",
			"error": fiber.Map{
				"code":        fiber.StatusConflict,
				"description": "A user with this userId or username already exists!",
			},
		})
	default:
		h.log.Error("request failed", zap.String("action", action), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Something went wrong",
		})
	}
}

// respondInvalidBody maps body-parse and decode failures to a 400 with a
// fixed message; the decode detail goes to the log, not the response.
func (h *UserHandler) respondInvalidBody(c *fiber.Ctx, err error) error {
	h.log.Warn("invalid request body", zap.Error(err))
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success": false,
		"message": "Invalid request body",
	})
}

func (h *UserHandler) respondInvalidUserID(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success": false,
		"message": "Invalid user id",
	})
}
