package services

import (
	"context"
	"time"

	"userorders/internal/models"
	"userorders/internal/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Event routing keys published on user lifecycle changes.
const (
	EventUserCreated = "user.created"
	EventUserUpdated = "user.updated"
	EventUserDeleted = "user.deleted"
	EventOrderPlaced = "order.placed"
)

// EventPublisher publishes user lifecycle events to the message broker.
type EventPublisher interface {
	PublishUserEvent(event string, payload map[string]interface{}) error
}

// UserService handles business logic for users and their orders.
type UserService struct {
	userRepo repositories.UserRepository
	events   EventPublisher // may be nil when no broker is configured
	log      *zap.Logger
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repositories.UserRepository, events EventPublisher, log *zap.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		events:   events,
		log:      log,
	}
}

// CreateUser persists a validated create payload and returns the stored
// user's projection, orders included. Duplicate userId/username surfaces as
// repositories.ErrDuplicateUser.
func (s *UserService) CreateUser(ctx context.Context, req *models.CreateUserRequest) (*models.CreatedUserView, error) {
	user := req.ToUser()
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.publish(EventUserCreated, map[string]interface{}{
		"userId":   user.UserID,
		"username": user.Username,
	})
	return user.CreatedView(), nil
}

// GetAllUsers returns the list projection of every user.
func (s *UserService) GetAllUsers(ctx context.Context) ([]models.UserSummary, error) {
	return s.userRepo.GetAll(ctx)
}

// GetUser returns a single user's projection by userId.
func (s *UserService) GetUser(ctx context.Context, userID int) (*models.UserView, error) {
	return s.userRepo.GetByUserID(ctx, userID)
}

// UpdateUser applies a partial update and returns the post-update view.
func (s *UserService) UpdateUser(ctx context.Context, userID int, update *models.UserUpdate) (*models.UserView, error) {
	view, err := s.userRepo.Update(ctx, userID, update)
	if err != nil {
		return nil, err
	}

	s.publish(EventUserUpdated, map[string]interface{}{
		"userId": view.UserID,
	})
	return view, nil
}

// DeleteUser hard-deletes a user by userId.
func (s *UserService) DeleteUser(ctx context.Context, userID int) error {
	if err := s.userRepo.Delete(ctx, userID); err != nil {
		return err
	}

	s.publish(EventUserDeleted, map[string]interface{}{
		"userId": userID,
	})
	return nil
}

// AddOrder appends a validated order to the user's orders sequence.
func (s *UserService) AddOrder(ctx context.Context, userID int, order models.Order) error {
	if err := s.userRepo.AppendOrder(ctx, userID, order); err != nil {
		return err
	}

	s.publish(EventOrderPlaced, map[string]interface{}{
		"userId":      userID,
		"productName": order.ProductName,
		"price":       order.Price,
		"quantity":    order.Quantity,
	})
	return nil
}

// GetOrders returns the user's orders.
func (s *UserService) GetOrders(ctx context.Context, userID int) ([]models.Order, error) {
	return s.userRepo.GetOrders(ctx, userID)
}

// GetTotalOrderPrice returns the sum of price*quantity over the user's
// orders, computed at read time.
func (s *UserService) GetTotalOrderPrice(ctx context.Context, userID int) (float64, error) {
	return s.userRepo.TotalOrderPrice(ctx, userID)
}

// publish sends a lifecycle event to the broker. Publishing is best-effort:
// failures are logged and never surfaced to the caller, and the store write
// is never rolled back.
func (s *UserService) publish(event string, payload map[string]interface{}) {
	if s.events == nil {
		return
	}
	payload["eventId"] = uuid.New().String()
	payload["event"] = event
	payload["timestamp"] = time.Now().UTC().Format(time.RFC3339)

	if err := s.events.PublishUserEvent(event, payload); err != nil {
		s.log.Warn("failed to publish user event", zap.String("event", event), zap.Error(err))
	}
}
