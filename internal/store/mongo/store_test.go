package mongo

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"useraccounts/internal/store"
	"useraccounts/shared/go/models"
)

// newTestStore connects to MONGO_TEST_URL and returns a Store on a throwaway
// database that is dropped when the test ends.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	uri := os.Getenv("MONGO_TEST_URL")
	if uri == "" {
		t.Skip("MONGO_TEST_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	require.NoError(t, err)
	require.NoError(t, client.Ping(ctx, nil))

	db := client.Database("useraccounts_test_" + uuid.NewString()[:8])
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = db.Drop(ctx)
		_ = client.Disconnect(ctx)
	})

	s, err := New(ctx, db)
	require.NoError(t, err)
	return s
}

func TestMongoCreateAndLookup(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	user, err := s.CreateUser(ctx, "alice", "hash")
	require.NoError(t, err)
	assert.Len(t, user.ID, 24)

	_, err = s.CreateUser(ctx, "alice", "hash")
	require.ErrorIs(t, err, store.ErrUserExists)

	byName, err := s.UserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byName.ID)
	assert.Equal(t, "hash", byName.PasswordHash)

	_, err = s.UserByID(ctx, "not-an-object-id")
	require.ErrorIs(t, err, store.ErrUserNotFound)
	_, err = s.UserByUsername(ctx, "nobody")
	require.ErrorIs(t, err, store.ErrUserNotFound)
}

func TestMongoAddRemove(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	user, err := s.CreateUser(ctx, "bob", "hash")
	require.NoError(t, err)

	for _, id := range []string{"m1", "m2", "m1"} {
		_, err := s.AddItem(ctx, user.ID, models.CollectionFavourites, id, 2)
		require.NoError(t, err)
	}

	_, err = s.AddItem(ctx, user.ID, models.CollectionFavourites, "m3", 2)
	require.ErrorIs(t, err, store.ErrCollectionFull)

	items, err := s.AddItem(ctx, user.ID, models.CollectionFavourites, "m2", 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"m1", "m2"}, items)

	items, err = s.RemoveItem(ctx, user.ID, models.CollectionFavourites, "m1")
	require.NoError(t, err)
	assert.Equal(t, []string{"m2"}, items)

	items, err = s.RemoveItem(ctx, user.ID, models.CollectionFavourites, "absent")
	require.NoError(t, err)
	assert.Equal(t, []string{"m2"}, items)

	loaded, err := s.UserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, loaded.History)
}

func TestMongoUnknownUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.AddItem(ctx, "65f0c0ffee0000000000beef", models.CollectionHistory, "m1", models.CollectionLimit)
	require.ErrorIs(t, err, store.ErrUserNotFound)
	_, err = s.RemoveItem(ctx, "65f0c0ffee0000000000beef", models.CollectionHistory, "m1")
	require.ErrorIs(t, err, store.ErrUserNotFound)
}

func TestMongoConcurrentAddsRespectLimit(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	user, err := s.CreateUser(ctx, "carol", "hash")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 80; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _ = s.AddItem(ctx, user.ID, models.CollectionHistory, fmt.Sprintf("m%d", i), models.CollectionLimit)
		}(i)
	}
	wg.Wait()

	loaded, err := s.UserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, loaded.History, models.CollectionLimit)
}
