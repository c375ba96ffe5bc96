package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"userorders/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const usersCollection = "users"

// MongoUserRepository is a MongoDB implementation of UserRepository.
type MongoUserRepository struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewMongoUserRepository connects to MongoDB, verifies the connection and
// ensures the uniqueness indexes on userId and username. Uniqueness is
// enforced by the store itself, so two concurrent creates with the same
// userId cannot both succeed.
func NewMongoUserRepository(uri, dbName string) (*MongoUserRepository, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	r := &MongoUserRepository{
		client: client,
		db:     client.Database(dbName),
	}
	if err := r.ensureIndexes(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure indexes: %w", err)
	}
	return r, nil
}

// Close disconnects the underlying MongoDB client.
func (r *MongoUserRepository) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return r.client.Disconnect(ctx)
}

func (r *MongoUserRepository) col() *mongo.Collection {
	return r.db.Collection(usersCollection)
}

func (r *MongoUserRepository) ensureIndexes(ctx context.Context) error {
	_, err := r.col().Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "userId", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
	})
	return err
}

// Create inserts a new user document. A userId or username collision
// surfaces as ErrDuplicateUser via the unique indexes.
func (r *MongoUserRepository) Create(ctx context.Context, user *models.User) error {
	if _, err := r.col().InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("user with ID %d or username %q: %w", user.UserID, user.Username, ErrDuplicateUser)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetAll returns the list projection of every stored user.
func (r *MongoUserRepository) GetAll(ctx context.Context) ([]models.UserSummary, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "username", Value: 1},
			{Key: "fullName", Value: bson.D{
				{Key: "firstName", Value: 1},
				{Key: "lastName", Value: 1},
			}},
			{Key: "age", Value: 1},
			{Key: "email", Value: 1},
			{Key: "address", Value: bson.D{
				{Key: "street", Value: 1},
				{Key: "city", Value: 1},
				{Key: "country", Value: 1},
			}},
		}}},
	}

	cursor, err := r.col().Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	summaries := make([]models.UserSummary, 0)
	if err := cursor.All(ctx, &summaries); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}
	return summaries, nil
}

// GetByUserID returns the single-user projection, excluding password,
// orders and the internal id at the store level.
func (r *MongoUserRepository) GetByUserID(ctx context.Context, userID int) (*models.UserView, error) {
	opts := options.FindOne().SetProjection(bson.D{
		{Key: "_id", Value: 0},
		{Key: "password", Value: 0},
		{Key: "orders", Value: 0},
	})

	var view models.UserView
	err := r.col().FindOne(ctx, bson.D{{Key: "userId", Value: userID}}, opts).Decode(&view)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user %d: %w", userID, err)
	}
	return &view, nil
}

// Update applies the set fields of the partial update in a single
// conditional UpdateOne, then reads the user back. A zero-match update
// means the user does not exist. When the update changes the userId, the
// read-back uses the new one.
func (r *MongoUserRepository) Update(ctx context.Context, userID int, update *models.UserUpdate) (*models.UserView, error) {
	set := updateSetDoc(update)
	if len(set) > 0 {
		res, err := r.col().UpdateOne(ctx,
			bson.D{{Key: "userId", Value: userID}},
			bson.D{{Key: "$set", Value: set}},
		)
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return nil, fmt.Errorf("update of user %d: %w", userID, ErrDuplicateUser)
			}
			return nil, fmt.Errorf("failed to update user %d: %w", userID, err)
		}
		if res.MatchedCount == 0 {
			return nil, ErrUserNotFound
		}
	}

	readBackID := userID
	if update.UserID != nil {
		readBackID = *update.UserID
	}
	return r.GetByUserID(ctx, readBackID)
}

// updateSetDoc builds the $set document from the non-nil update fields.
// Sub-objects are replaced wholesale, matching the shallow merge policy.
func updateSetDoc(update *models.UserUpdate) bson.D {
	set := bson.D{}
	if update.UserID != nil {
		set = append(set, bson.E{Key: "userId", Value: *update.UserID})
	}
	if update.Username != nil {
		set = append(set, bson.E{Key: "username", Value: *update.Username})
	}
	if update.Password != nil {
		set = append(set, bson.E{Key: "password", Value: *update.Password})
	}
	if update.FullName != nil {
		set = append(set, bson.E{Key: "fullName", Value: *update.FullName})
	}
	if update.Age != nil {
		set = append(set, bson.E{Key: "age", Value: *update.Age})
	}
	if update.Email != nil {
		set = append(set, bson.E{Key: "email", Value: *update.Email})
	}
	if update.IsActive != nil {
		set = append(set, bson.E{Key: "isActive", Value: *update.IsActive})
	}
	if update.Hobbies != nil {
		set = append(set, bson.E{Key: "hobbies", Value: *update.Hobbies})
	}
	if update.Address != nil {
		set = append(set, bson.E{Key: "address", Value: *update.Address})
	}
	return set
}

// Delete hard-deletes the matching user document.
func (r *MongoUserRepository) Delete(ctx context.Context, userID int) error {
	res, err := r.col().DeleteOne(ctx, bson.D{{Key: "userId", Value: userID}})
	if err != nil {
		return fmt.Errorf("failed to delete user %d: %w", userID, err)
	}
	if res.DeletedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}

// AppendOrder pushes an order onto the user's orders sequence. Orders are
// append-only; there is no edit or delete for individual orders.
func (r *MongoUserRepository) AppendOrder(ctx context.Context, userID int, order models.Order) error {
	res, err := r.col().UpdateOne(ctx,
		bson.D{{Key: "userId", Value: userID}},
		bson.D{{Key: "$push", Value: bson.D{{Key: "orders", Value: order}}}},
	)
	if err != nil {
		return fmt.Errorf("failed to append order for user %d: %w", userID, err)
	}
	if res.MatchedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}

// GetOrders returns the user's orders sequence only.
func (r *MongoUserRepository) GetOrders(ctx context.Context, userID int) ([]models.Order, error) {
	opts := options.FindOne().SetProjection(bson.D{
		{Key: "_id", Value: 0},
		{Key: "orders", Value: 1},
	})

	var doc struct {
		Orders []models.Order `bson:"orders"`
	}
	err := r.col().FindOne(ctx, bson.D{{Key: "userId", Value: userID}}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get orders for user %d: %w", userID, err)
	}
	if doc.Orders == nil {
		doc.Orders = []models.Order{}
	}
	return doc.Orders, nil
}

// TotalOrderPrice computes the sum of price*quantity over the user's orders
// inside the store at query time; the total is never cached or stored.
func (r *MongoUserRepository) TotalOrderPrice(ctx context.Context, userID int) (float64, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.D{{Key: "userId", Value: userID}}}},
		bson.D{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "totalPrice", Value: bson.D{{Key: "$sum", Value: bson.D{
				{Key: "$map", Value: bson.D{
					{Key: "input", Value: "$orders"},
					{Key: "as", Value: "order"},
					{Key: "in", Value: bson.D{{Key: "$multiply", Value: bson.A{"$$order.price", "$$order.quantity"}}}},
				}},
			}}}},
		}}},
	}

	cursor, err := r.col().Aggregate(ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("failed to total orders for user %d: %w", userID, err)
	}

	var results []struct {
		TotalPrice float64 `bson:"totalPrice"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return 0, fmt.Errorf("failed to decode order total for user %d: %w", userID, err)
	}
	if len(results) == 0 {
		return 0, ErrUserNotFound
	}
	return results[0].TotalPrice, nil
}
