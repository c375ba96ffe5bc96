package repositories

import (
	"context"
	"fmt"
	"sync"

	"userorders/internal/models"
)

// MockUserRepository is an in-memory implementation of UserRepository. It
// mirrors the MongoDB implementation's semantics (uniqueness, not-found,
// shallow-merge updates) and backs the handler tests and broker-less
// local runs.
type MockUserRepository struct {
	users map[int]models.User
	mu    sync.RWMutex
}

// NewMockUserRepository creates a new instance of MockUserRepository.
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users: make(map[int]models.User),
	}
}

// Create adds a new user, rejecting userId and username collisions.
func (r *MockUserRepository) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.UserID]; ok {
		return fmt.Errorf("user with ID %d: %w", user.UserID, ErrDuplicateUser)
	}
	for _, existing := range r.users {
		if existing.Username == user.Username {
			return fmt.Errorf("username %q: %w", user.Username, ErrDuplicateUser)
		}
	}
	if user.Orders == nil {
		user.Orders = []models.Order{}
	}
	r.users[user.UserID] = *user
	return nil
}

// GetAll returns the list projection of every stored user.
func (r *MockUserRepository) GetAll(_ context.Context) ([]models.UserSummary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	summaries := make([]models.UserSummary, 0, len(r.users))
	for _, user := range r.users {
		summaries = append(summaries, user.Summary())
	}
	return summaries, nil
}

// GetByUserID returns the single-user projection.
func (r *MockUserRepository) GetByUserID(_ context.Context, userID int) (*models.UserView, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[userID]
	if !ok {
		return nil, ErrUserNotFound
	}
	return user.View(), nil
}

// Update applies the set fields of the partial update, shallow by top-level
// key, and returns the post-update view keyed by the (possibly new) userId.
func (r *MockUserRepository) Update(_ context.Context, userID int, update *models.UserUpdate) (*models.UserView, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[userID]
	if !ok {
		return nil, ErrUserNotFound
	}

	if update.UserID != nil && *update.UserID != userID {
		if _, taken := r.users[*update.UserID]; taken {
			return nil, fmt.Errorf("user with ID %d: %w", *update.UserID, ErrDuplicateUser)
		}
	}
	if update.Username != nil && *update.Username != user.Username {
		for _, existing := range r.users {
			if existing.Username == *update.Username {
				return nil, fmt.Errorf("username %q: %w", *update.Username, ErrDuplicateUser)
			}
		}
	}

	update.Apply(&user)
	delete(r.users, userID)
	r.users[user.UserID] = user
	return user.View(), nil
}

// Delete removes a user by userId.
func (r *MockUserRepository) Delete(_ context.Context, userID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[userID]; !ok {
		return ErrUserNotFound
	}
	delete(r.users, userID)
	return nil
}

// AppendOrder appends an order to the user's orders sequence.
func (r *MockUserRepository) AppendOrder(_ context.Context, userID int, order models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[userID]
	if !ok {
		return ErrUserNotFound
	}
	user.Orders = append(user.Orders, order)
	r.users[userID] = user
	return nil
}

// GetOrders returns the user's orders sequence.
func (r *MockUserRepository) GetOrders(_ context.Context, userID int) ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[userID]
	if !ok {
		return nil, ErrUserNotFound
	}
	orders := make([]models.Order, len(user.Orders))
	copy(orders, user.Orders)
	return orders, nil
}

// TotalOrderPrice sums price*quantity over the user's orders at call time.
func (r *MockUserRepository) TotalOrderPrice(_ context.Context, userID int) (float64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[userID]
	if !ok {
		return 0, ErrUserNotFound
	}
	var total float64
	for _, order := range user.Orders {
		total += order.Price * float64(order.Quantity)
	}
	return total, nil
}
