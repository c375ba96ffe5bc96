package repositories_test

import (
	"context"
	"testing"

	"userorders/internal/models"
	"userorders/internal/repositories"

	"github.com/stretchr/testify/assert"
)

func newUser(userID int, username string) *models.User {
	return &models.User{
		UserID:   userID,
		Username: username,
		Password: "secret",
		FullName: models.FullName{FirstName: "John", LastName: "Doe"},
		Age:      30,
		Email:    username + "@example.com",
		IsActive: true,
		Hobbies:  []string{"reading"},
		Address:  models.Address{Street: "1 Main St", City: "Springfield", Country: "USA"},
		Orders:   []models.Order{},
	}
}

func TestMockUserRepository_CreateAndGet(t *testing.T) {
	repo := repositories.NewMockUserRepository()
	ctx := context.Background()

	assert.NoError(t, repo.Create(ctx, newUser(1, "johndoe")))

	view, err := repo.GetByUserID(ctx, 1)
	assert.NoError(t, err)
	assert.Equal(t, 1, view.UserID)
	assert.Equal(t, "johndoe", view.Username)
	assert.Equal(t, "johndoe@example.com", view.Email)

	_, err = repo.GetByUserID(ctx, 2)
	assert.ErrorIs(t, err, repositories.ErrUserNotFound)
}

func TestMockUserRepository_DuplicateUserID(t *testing.T) {
	repo := repositories.NewMockUserRepository()
	ctx := context.Background()

	assert.NoError(t, repo.Create(ctx, newUser(1, "johndoe")))

	// Same userId, different username.
	err := repo.Create(ctx, newUser(1, "janedoe"))
	assert.ErrorIs(t, err, repositories.ErrDuplicateUser)

	// Different userId, same username.
	err = repo.Create(ctx, newUser(2, "johndoe"))
	assert.ErrorIs(t, err, repositories.ErrDuplicateUser)
}

func TestMockUserRepository_UpdateShallowMerge(t *testing.T) {
	repo := repositories.NewMockUserRepository()
	ctx := context.Background()
	assert.NoError(t, repo.Create(ctx, newUser(1, "johndoe")))

	age := 31
	fullName := models.FullName{FirstName: "Johnny", LastName: "Doe"}
	view, err := repo.Update(ctx, 1, &models.UserUpdate{
		Age:      &age,
		FullName: &fullName,
	})

	assert.NoError(t, err)
	assert.Equal(t, 31, view.Age)
	// The whole fullName sub-object is replaced by the supplied one.
	assert.Equal(t, fullName, view.FullName)
	// Untouched fields survive.
	assert.Equal(t, "johndoe", view.Username)
	assert.Equal(t, "1 Main St", view.Address.Street)
}

func TestMockUserRepository_UpdateChangesUserID(t *testing.T) {
	repo := repositories.NewMockUserRepository()
	ctx := context.Background()
	assert.NoError(t, repo.Create(ctx, newUser(1, "johndoe")))

	newID := 5
	view, err := repo.Update(ctx, 1, &models.UserUpdate{UserID: &newID})
	assert.NoError(t, err)
	assert.Equal(t, 5, view.UserID)

	// The user is now addressable only under the new id.
	_, err = repo.GetByUserID(ctx, 1)
	assert.ErrorIs(t, err, repositories.ErrUserNotFound)
	got, err := repo.GetByUserID(ctx, 5)
	assert.NoError(t, err)
	assert.Equal(t, "johndoe", got.Username)
}

func TestMockUserRepository_UpdateNotFound(t *testing.T) {
	repo := repositories.NewMockUserRepository()

	age := 20
	_, err := repo.Update(context.Background(), 99, &models.UserUpdate{Age: &age})
	assert.ErrorIs(t, err, repositories.ErrUserNotFound)
}

func TestMockUserRepository_Delete(t *testing.T) {
	repo := repositories.NewMockUserRepository()
	ctx := context.Background()
	assert.NoError(t, repo.Create(ctx, newUser(1, "johndoe")))

	assert.NoError(t, repo.Delete(ctx, 1))

	_, err := repo.GetByUserID(ctx, 1)
	assert.ErrorIs(t, err, repositories.ErrUserNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, 1), repositories.ErrUserNotFound)
}

func TestMockUserRepository_OrdersAndTotalPrice(t *testing.T) {
	repo := repositories.NewMockUserRepository()
	ctx := context.Background()
	assert.NoError(t, repo.Create(ctx, newUser(1, "johndoe")))

	// Fresh user: empty orders, zero total.
	orders, err := repo.GetOrders(ctx, 1)
	assert.NoError(t, err)
	assert.Empty(t, orders)
	total, err := repo.TotalOrderPrice(ctx, 1)
	assert.NoError(t, err)
	assert.Equal(t, 0.0, total)

	assert.NoError(t, repo.AppendOrder(ctx, 1, models.Order{ProductName: "X", Price: 10, Quantity: 3}))
	assert.NoError(t, repo.AppendOrder(ctx, 1, models.Order{ProductName: "Y", Price: 2.5, Quantity: 2}))

	orders, err = repo.GetOrders(ctx, 1)
	assert.NoError(t, err)
	assert.Len(t, orders, 2)
	assert.Equal(t, "X", orders[0].ProductName)

	total, err = repo.TotalOrderPrice(ctx, 1)
	assert.NoError(t, err)
	assert.Equal(t, 35.0, total)

	// The orders family distinguishes not-found deterministically.
	assert.ErrorIs(t, repo.AppendOrder(ctx, 99, models.Order{ProductName: "Z", Price: 1, Quantity: 1}), repositories.ErrUserNotFound)
	_, err = repo.GetOrders(ctx, 99)
	assert.ErrorIs(t, err, repositories.ErrUserNotFound)
	_, err = repo.TotalOrderPrice(ctx, 99)
	assert.ErrorIs(t, err, repositories.ErrUserNotFound)
}

func TestMockUserRepository_GetAllProjection(t *testing.T) {
	repo := repositories.NewMockUserRepository()
	ctx := context.Background()
	assert.NoError(t, repo.Create(ctx, newUser(1, "johndoe")))
	assert.NoError(t, repo.Create(ctx, newUser(2, "janedoe")))

	summaries, err := repo.GetAll(ctx)
	assert.NoError(t, err)
	assert.Len(t, summaries, 2)
	for _, s := range summaries {
		assert.NotEmpty(t, s.Username)
		assert.NotEmpty(t, s.Email)
		assert.Equal(t, "Springfield", s.Address.City)
	}
}
