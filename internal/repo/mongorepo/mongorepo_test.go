package mongorepo

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/online_pharmacy/internal/models"
	"github.com/Skotchmaster/online_pharmacy/internal/repo"
	"github.com/Skotchmaster/online_pharmacy/pkg/db"
)

func newTestRepo(t *testing.T) *MongoRepo {
	t.Helper()
	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		t.Skip("MONGO_TEST_URI not set; skipping mongo repository tests")
	}

	ctx := context.Background()
	mdb, err := db.OpenMongo(ctx, uri, "pharmacy_test_"+uuid.NewString()[:8])
	require.NoError(t, err)

	r := New(mdb)
	require.NoError(t, r.Migrate(ctx))
	t.Cleanup(func() {
		_ = mdb.Drop(context.Background())
		_ = r.Close(context.Background())
	})
	return r
}

func TestUsers(t *testing.T) {
	ctx := context.Background()
	r := newTestRepo(t)

	u := &models.User{Username: "alice", PasswordHash: "h"}
	require.NoError(t, r.CreateUser(ctx, u))
	require.NotEmpty(t, u.ID)

	got, err := r.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	got, err = r.GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)

	require.ErrorIs(t, r.CreateUser(ctx, &models.User{Username: "alice"}), repo.ErrDuplicate)

	_, err = r.GetUserByID(ctx, "missing")
	require.ErrorIs(t, err, repo.ErrNotFound)
}

func TestProducts(t *testing.T) {
	ctx := context.Background()
	r := newTestRepo(t)

	for _, p := range []models.Product{
		{Name: "B", Price: 5, Formula: "x"},
		{Name: "A", Price: 9, Formula: "y"},
		{Name: "C", Price: 1, Formula: "z"},
	} {
		require.NoError(t, r.CreateProduct(ctx, &p))
	}

	byName, err := r.ListProducts(ctx, repo.SortByName)
	require.NoError(t, err)
	require.Len(t, byName, 3)
	assert.Equal(t, "A", byName[0].Name)

	byPrice, err := r.ListProducts(ctx, repo.SortByPrice)
	require.NoError(t, err)
	assert.Equal(t, "C", byPrice[0].Name)

	target := byName[0]
	target.Price = 11
	require.NoError(t, r.ReplaceProduct(ctx, &target))
	got, err := r.GetProduct(ctx, target.ID)
	require.NoError(t, err)
	assert.Equal(t, 11.0, got.Price)

	require.ErrorIs(t, r.ReplaceProduct(ctx, &models.Product{ID: "missing"}), repo.ErrNotFound)

	require.NoError(t, r.DeleteProduct(ctx, target.ID))
	require.NoError(t, r.DeleteProduct(ctx, target.ID))
}

func TestCart(t *testing.T) {
	ctx := context.Background()
	r := newTestRepo(t)

	p := &models.Product{Name: "Aspirin", Price: 4.5, Formula: "C9H8O4"}
	require.NoError(t, r.CreateProduct(ctx, p))

	item := &models.CartItem{UserID: "u1", ProductID: p.ID, Quantity: 2}
	require.NoError(t, r.AddCartItem(ctx, item))

	lines, err := r.ListCartLines(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, lines, 1)
	require.NotNil(t, lines[0].Product)
	assert.Equal(t, "Aspirin", lines[0].Product.Name)

	_, err = r.UpdateCartItemQuantity(ctx, item.ID, "u2", 4)
	require.ErrorIs(t, err, repo.ErrNotFound)
	updated, err := r.UpdateCartItemQuantity(ctx, item.ID, "u1", 4)
	require.NoError(t, err)
	assert.Equal(t, 4, updated.Quantity)

	require.NoError(t, r.DeleteProduct(ctx, p.ID))
	lines, err = r.ListCartLines(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Nil(t, lines[0].Product)

	require.ErrorIs(t, r.DeleteCartItem(ctx, item.ID, "u2"), repo.ErrNotFound)
	require.NoError(t, r.DeleteCartItem(ctx, item.ID, "u1"))
}
