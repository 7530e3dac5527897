package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/shivanshkc/ghauth/internal/repository"
)

const mNamespace = "ghauth.users"

// mockUserDoc returns a raw user document as the server would send it.
func mockUserDoc(id primitive.ObjectID) bson.D {
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "email", Value: "a@x.com"},
		{Key: "display_name", Value: "John"},
		{Key: "accounts", Value: bson.A{
			bson.D{{Key: "provider", Value: "google"}, {Key: "uid", Value: "g-1"}},
			bson.D{{Key: "provider", Value: "github"}, {Key: "uid", Value: "123"}},
		}},
	}
}

func TestUserDB_FindByAccount(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("User found", func(mt *mtest.T) {
		userDB := &UserDB{collection: mt.Coll}
		mID := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(1, mNamespace, mtest.FirstBatch, mockUserDoc(mID)))

		user, err := userDB.FindByAccount(context.Background(), "github", "123")
		require.NoError(mt, err, "Expected no error")
		require.Equal(mt, mID.Hex(), user.ID)
		require.Equal(mt, "a@x.com", user.Email)
		require.Equal(mt, []repository.Account{{Provider: "google", UID: "g-1"}, {Provider: "github", UID: "123"}},
			user.Accounts)
	})

	mt.Run("User not found", func(mt *mtest.T) {
		userDB := &UserDB{collection: mt.Coll}
		mt.AddMockResponses(mtest.CreateCursorResponse(0, mNamespace, mtest.FirstBatch))

		_, err := userDB.FindByAccount(context.Background(), "github", "123")
		require.ErrorIs(mt, err, repository.ErrNotFound)
	})

	mt.Run("Database error", func(mt *mtest.T) {
		userDB := &UserDB{collection: mt.Coll}
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 2, Message: "mock error"}))

		_, err := userDB.FindByAccount(context.Background(), "github", "123")
		require.Error(mt, err, "Expected error")
		require.NotErrorIs(mt, err, repository.ErrNotFound)
	})
}

func TestUserDB_FindByEmail(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("User found", func(mt *mtest.T) {
		userDB := &UserDB{collection: mt.Coll}
		mID := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(1, mNamespace, mtest.FirstBatch, mockUserDoc(mID)))

		user, err := userDB.FindByEmail(context.Background(), "a@x.com")
		require.NoError(mt, err, "Expected no error")
		require.Equal(mt, mID.Hex(), user.ID)
	})
}

func TestUserDB_FindByID_InvalidID(t *testing.T) {
	// The ID is validated before any database call.
	userDB := &UserDB{}
	_, err := userDB.FindByID(context.Background(), "not-an-object-id")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUserDB_CreateUser(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	mUser := repository.User{
		Email:       "a@x.com",
		DisplayName: "John",
		Accounts:    []repository.Account{{Provider: "github", UID: "123"}},
	}

	mt.Run("User inserted", func(mt *mtest.T) {
		userDB := &UserDB{collection: mt.Coll}
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		created, err := userDB.CreateUser(context.Background(), mUser)
		require.NoError(mt, err, "Expected no error")
		require.NotEmpty(mt, created.ID, "Expected ID to be assigned")
		require.Equal(mt, mUser.Accounts, created.Accounts)
		require.False(mt, created.CreatedAt.IsZero(), "Expected creation time to be set")
	})

	mt.Run("Duplicate key", func(mt *mtest.T) {
		userDB := &UserDB{collection: mt.Coll}
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "duplicate key error",
		}))

		_, err := userDB.CreateUser(context.Background(), mUser)
		require.ErrorIs(mt, err, repository.ErrConflict)
	})
}

func TestUserDB_LinkAccount(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	mID := primitive.NewObjectID().Hex()
	mAccount := repository.Account{Provider: "github", UID: "123"}

	mt.Run("Account linked", func(mt *mtest.T) {
		userDB := &UserDB{collection: mt.Coll}
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))

		err := userDB.LinkAccount(context.Background(), mID, mAccount, "New Name")
		require.NoError(mt, err, "Expected no error")
	})

	mt.Run("User not found", func(mt *mtest.T) {
		userDB := &UserDB{collection: mt.Coll}
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 0},
			bson.E{Key: "nModified", Value: 0},
		))

		err := userDB.LinkAccount(context.Background(), mID, mAccount, "New Name")
		require.ErrorIs(mt, err, repository.ErrNotFound)
	})

	mt.Run("Account linked elsewhere", func(mt *mtest.T) {
		userDB := &UserDB{collection: mt.Coll}
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "duplicate key error",
		}))

		err := userDB.LinkAccount(context.Background(), mID, mAccount, "New Name")
		require.ErrorIs(mt, err, repository.ErrConflict)
	})
}

func TestUserDB_CreateIndices(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("Indices created", func(mt *mtest.T) {
		userDB := &UserDB{collection: mt.Coll}
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		require.NoError(mt, userDB.CreateIndices(context.Background()), "Expected no error")
	})
}
