package repositories

import (
	"context"
	"errors"

	"userorders/internal/models"
)

// ErrUserNotFound is returned when no user matches the given userId. It is a
// normal outcome, not a store failure; handlers translate it into a 404.
var ErrUserNotFound = errors.New("user not found")

// ErrDuplicateUser is returned when an insert or update collides with an
// existing userId or username.
var ErrDuplicateUser = errors.New("user already exists")

// UserRepository defines the interface for user data access. All reads
// return projections that never include the password or the store's
// internal id.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetAll(ctx context.Context) ([]models.UserSummary, error)
	GetByUserID(ctx context.Context, userID int) (*models.UserView, error)
	Update(ctx context.Context, userID int, update *models.UserUpdate) (*models.UserView, error)
	Delete(ctx context.Context, userID int) error
	AppendOrder(ctx context.Context, userID int, order models.Order) error
	GetOrders(ctx context.Context, userID int) ([]models.Order, error)
	TotalOrderPrice(ctx context.Context, userID int) (float64, error)
}
