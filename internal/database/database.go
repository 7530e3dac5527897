package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shivanshkc/ghauth/internal/config"
	"github.com/shivanshkc/ghauth/internal/repository"
)

// usersCollectionName is the name of the collection that holds user records.
const usersCollectionName = "users"

// UserDoc is the schema of a user's info in the database.
type UserDoc struct {
	ID primitive.ObjectID `json:"_id" bson:"_id"`

	Email       string               `json:"email" bson:"email"`
	DisplayName string               `json:"display_name" bson:"display_name"`
	Accounts    []repository.Account `json:"accounts" bson:"accounts"`

	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// toUser converts the document into the storage-agnostic user model.
func (d UserDoc) toUser() repository.User {
	accounts := d.Accounts
	if accounts == nil {
		accounts = []repository.Account{}
	}

	return repository.User{
		ID:          d.ID.Hex(),
		Email:       d.Email,
		DisplayName: d.DisplayName,
		Accounts:    accounts,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

var _ repository.Store = (*UserDB)(nil)

// UserDB encapsulates all user collection methods. It implements repository.Store.
type UserDB struct {
	collection *mongo.Collection
}

// NewUserDB returns a new *UserDB instance.
func NewUserDB(conf config.Config, client *mongo.Client) *UserDB {
	collection := client.Database(conf.Database.Database).Collection(usersCollectionName)
	return &UserDB{collection: collection}
}

// Connect creates the mongo client and verifies connectivity.
func Connect(ctx context.Context, conf config.Config) (*mongo.Client, error) {
	opts := options.Client().
		ApplyURI("mongodb://" + conf.Database.Addr).
		SetTimeout(conf.Database.Timeout)

	if conf.Database.Username != "" {
		opts.SetAuth(options.Credential{Username: conf.Database.Username, Password: conf.Database.Password})
	}

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("error in mongo.Connect call: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("error in client.Ping call: %w", err)
	}

	return client, nil
}

func (u *UserDB) FindByAccount(ctx context.Context, provider, uid string) (repository.User, error) {
	filter := bson.M{"accounts": bson.M{"$elemMatch": bson.M{"provider": provider, "uid": uid}}}
	return u.findOne(ctx, filter)
}

func (u *UserDB) FindByEmail(ctx context.Context, email string) (repository.User, error) {
	return u.findOne(ctx, bson.M{"email": email})
}

func (u *UserDB) FindByID(ctx context.Context, id string) (repository.User, error) {
	userID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return repository.User{}, repository.ErrNotFound
	}
	return u.findOne(ctx, bson.M{"_id": userID})
}

func (u *UserDB) CreateUser(ctx context.Context, user repository.User) (repository.User, error) {
	now := time.Now().UTC()
	doc := UserDoc{
		ID:          primitive.NewObjectID(),
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Accounts:    user.Accounts,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := u.collection.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.User{}, fmt.Errorf("error in InsertOne call: %w", errors.Join(repository.ErrConflict, err))
		}
		return repository.User{}, fmt.Errorf("error in InsertOne call: %w", err)
	}

	slog.InfoContext(ctx, "user document inserted", "id", doc.ID.Hex(), "email", doc.Email)
	return doc.toUser(), nil
}

func (u *UserDB) LinkAccount(ctx context.Context, userID string, account repository.Account, displayName string) error {
	id, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return repository.ErrNotFound
	}

	update := bson.M{
		"$push": bson.M{"accounts": account},
		// Email is never touched here.
		"$set": bson.M{
			"display_name": displayName,
			"updated_at":   time.Now().UTC(),
		},
	}

	result, err := u.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("error in UpdateOne call: %w", errors.Join(repository.ErrConflict, err))
		}
		return fmt.Errorf("error in UpdateOne call: %w", err)
	}

	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}

	slog.InfoContext(ctx, "account linked to user document", "id", userID, "provider", account.Provider)
	return nil
}

// CreateIndices creates all required database indices.
//
// The unique multikey index on the accounts makes sure that one provider identity can belong to only one user.
func (u *UserDB) CreateIndices(ctx context.Context) error {
	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "accounts.provider", Value: 1}, {Key: "accounts.uid", Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true),
		},
	}

	if _, err := u.collection.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create indices: %w", err)
	}

	return nil
}

// findOne runs the given filter and converts the result.
func (u *UserDB) findOne(ctx context.Context, filter bson.M) (repository.User, error) {
	result := u.collection.FindOne(ctx, filter)
	if err := result.Err(); err != nil {
		// Handle 404.
		if errors.Is(err, mongo.ErrNoDocuments) {
			return repository.User{}, repository.ErrNotFound
		}
		// Unexpected error.
		return repository.User{}, fmt.Errorf("error in FindOne call: %w", err)
	}

	var userDoc UserDoc
	if err := result.Decode(&userDoc); err != nil {
		return repository.User{}, fmt.Errorf("failed to decode user doc: %w", err)
	}

	return userDoc.toUser(), nil
}
