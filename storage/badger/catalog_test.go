package badger

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/stylematch/core"
	"github.com/poiesic/stylematch/storage"
)

func newTestRepository(t *testing.T) storage.CatalogRepository {
	t.Helper()
	repo, err := NewMemoryRepository()
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func testItem(id string, vec ...float32) core.CatalogItem {
	desc := "Item " + id
	it := core.CatalogItem{Id: id, Description: desc, Category: "Shirts", Gender: core.GenderMen}
	if len(vec) > 0 {
		it.Embedding = vec
		it.DescriptionHash = core.IDFromContent(desc)
	}
	return it
}

func itemIDs(items []core.CatalogItem) []string {
	out := make([]string, len(items))
	for i := range items {
		out[i] = items[i].Id
	}
	return out
}

func TestPutAndGet(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	item := testItem("15970", 0.1, 0.2, 0.3)
	require.NoError(t, repo.PutItems(ctx, item))

	got, err := repo.GetItem(ctx, "15970")
	require.NoError(t, err)
	assert.Equal(t, item, *got)

	_, err = repo.GetItem(ctx, "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	items, err := repo.GetItems(ctx, "missing", "15970")
	require.NoError(t, err)
	assert.Equal(t, []string{"15970"}, itemIDs(items))
}

func TestPutItems_Validates(t *testing.T) {
	repo := newTestRepository(t)

	err := repo.PutItems(context.Background(), testItem("1"), core.CatalogItem{Id: "2"})
	assert.ErrorIs(t, err, core.ErrInvalidInput)

	count, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count, "nothing is written when any item is invalid")
}

func TestAllItems_InsertionOrder(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	// Ids chosen so lexical order differs from insertion order.
	require.NoError(t, repo.PutItems(ctx, testItem("30"), testItem("4"), testItem("200")))
	require.NoError(t, repo.PutItems(ctx, testItem("1")))

	all, err := repo.AllItems(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"30", "4", "200", "1"}, itemIDs(all))

	t.Run("replace keeps position", func(t *testing.T) {
		updated := testItem("4", 1, 0)
		updated.Description = "Updated"
		require.NoError(t, repo.PutItems(ctx, updated))

		all, err := repo.AllItems(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"30", "4", "200", "1"}, itemIDs(all))
		assert.Equal(t, "Updated", all[1].Description)

		count, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 4, count)
	})

	t.Run("delete and re-add moves to end", func(t *testing.T) {
		require.NoError(t, repo.DeleteItems(ctx, "30"))
		require.NoError(t, repo.PutItems(ctx, testItem("30")))

		all, err := repo.AllItems(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"4", "200", "1", "30"}, itemIDs(all))
	})
}

func TestPutItems_LargeBatchIsChunked(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	items := make([]core.CatalogItem, putChunkSize*2+7)
	for i := range items {
		items[i] = testItem(fmt.Sprintf("%05d", i), float32(i), 1)
	}
	require.NoError(t, repo.PutItems(ctx, items...))

	all, err := repo.AllItems(ctx)
	require.NoError(t, err)
	assert.Equal(t, itemIDs(items), itemIDs(all))
}

func TestDeleteItems(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	require.NoError(t, repo.PutItems(ctx, testItem("1"), testItem("2")))

	require.NoError(t, repo.DeleteItems(ctx, "1"))
	_, err := repo.GetItem(ctx, "1")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	err = repo.DeleteItems(ctx, "2", "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, err = repo.GetItem(ctx, "2")
	assert.NoError(t, err, "failed delete is rolled back")
}

func TestListItems(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	var want []string
	for i := range 7 {
		id := fmt.Sprintf("item-%d", i)
		want = append(want, id)
		require.NoError(t, repo.PutItems(ctx, testItem(id)))
	}

	var got []string
	var cursor uint64
	pages := 0
	for {
		page, next, err := repo.ListItems(ctx, cursor, 3)
		require.NoError(t, err)
		if len(page) == 0 {
			assert.Equal(t, cursor, next)
			break
		}
		got = append(got, itemIDs(page)...)
		cursor = next
		pages++
	}
	assert.Equal(t, want, got)
	assert.Equal(t, 3, pages)

	_, _, err := repo.ListItems(ctx, 0, 0)
	assert.ErrorIs(t, err, storage.ErrInvalidQuery)
}

func TestWithTransaction_Repository(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	require.NoError(t, repo.PutItems(ctx, testItem("old")))

	boom := errors.New("abort")
	err := repo.WithTransaction(ctx, func(ctx context.Context) error {
		if err := repo.DeleteItems(ctx, "old"); err != nil {
			return err
		}
		if err := repo.PutItems(ctx, testItem("new")); err != nil {
			return err
		}
		count, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	all, err := repo.AllItems(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"old"}, itemIDs(all))

	err = repo.WithTransaction(ctx, func(ctx context.Context) error {
		if err := repo.DeleteItems(ctx, "old"); err != nil {
			return err
		}
		return repo.PutItems(ctx, testItem("new"))
	})
	require.NoError(t, err)

	all, err = repo.AllItems(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"new"}, itemIDs(all))
}

func TestMeta(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	meta, err := repo.LoadMeta(ctx)
	require.NoError(t, err)
	assert.Nil(t, meta)

	before := time.Now().UTC().Add(-time.Second)
	require.NoError(t, repo.SaveMeta(ctx, core.CatalogMeta{Model: "text-embedding-3-large", Dimensions: 3072, Items: 2}))

	meta, err = repo.LoadMeta(ctx)
	require.NoError(t, err)
	require.NotNil(t, meta)
	assert.Equal(t, "text-embedding-3-large", meta.Model)
	assert.Equal(t, 3072, meta.Dimensions)
	assert.Equal(t, 2, meta.Items)
	assert.True(t, meta.UpdatedAt.After(before))
}

func TestNewRepository_Persists(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	repo, err := NewRepository(dir)
	require.NoError(t, err)
	require.NoError(t, repo.PutItems(ctx, testItem("b", 1, 0), testItem("a", 0, 1)))
	require.NoError(t, repo.Close())

	repo, err = NewRepository(dir)
	require.NoError(t, err)
	defer repo.Close()

	require.NoError(t, repo.PutItems(ctx, testItem("c")))
	all, err := repo.AllItems(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a", "c"}, itemIDs(all))
}
