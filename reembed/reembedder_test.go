package reembed

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/stylematch/ai/mock"
	"github.com/poiesic/stylematch/core"
	"github.com/poiesic/stylematch/storage"
	store "github.com/poiesic/stylematch/storage/badger"
)

// countingVectorizer embeds with mock.DeterministicVector and records the
// texts it was asked for.
type countingVectorizer struct {
	dims  int
	err   error
	mu    sync.Mutex
	texts []string
	calls int
}

func (v *countingVectorizer) Embed(_ context.Context, texts []string) ([][]float32, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.calls++
	v.texts = append(v.texts, texts...)
	if v.err != nil {
		return nil, v.err
	}
	out := make([][]float32, len(texts))
	for i, text := range texts {
		out[i] = mock.DeterministicVector(text, v.dims)
	}
	return out, nil
}

func newRepo(t *testing.T) storage.CatalogRepository {
	t.Helper()
	repo, err := store.NewMemoryRepository()
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func embedded(id, desc string, dims int) core.CatalogItem {
	return core.CatalogItem{
		Id:              id,
		Description:     desc,
		Category:        "Tshirts",
		Gender:          core.GenderMen,
		Embedding:       mock.DeterministicVector(desc, dims),
		DescriptionHash: core.IDFromContent(desc),
	}
}

func bare(id, desc string) core.CatalogItem {
	return core.CatalogItem{Id: id, Description: desc, Category: "Jeans", Gender: core.GenderWomen}
}

func TestNewReembedder(t *testing.T) {
	repo := newRepo(t)

	_, err := NewReembedder(nil, &countingVectorizer{})
	assert.ErrorIs(t, err, ErrRepositoryRequired)
	assert.ErrorIs(t, err, core.ErrConfiguration)

	_, err = NewReembedder(repo, nil)
	assert.ErrorIs(t, err, ErrVectorizerRequired)

	_, err = NewReembedder(repo, &countingVectorizer{}, WithConfig(&Config{BatchSize: 0}))
	assert.ErrorIs(t, err, ErrInvalidBatchSize)
	assert.ErrorIs(t, err, core.ErrConfiguration)

	r, err := NewReembedder(repo, &countingVectorizer{}, WithConfig(nil), WithProgress(nil), WithLogger(nil))
	require.NoError(t, err)
	assert.Equal(t, DefaultBatchSize, r.config.BatchSize)
}

func TestReembedder_EmptyStore(t *testing.T) {
	repo := newRepo(t)
	vec := &countingVectorizer{dims: 4}
	var out bytes.Buffer

	r, err := NewReembedder(repo, vec, WithProgress(&out))
	require.NoError(t, err)

	result, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, result.Scanned)
	assert.Zero(t, vec.calls)
	assert.Contains(t, out.String(), "No items found")
}

func TestReembedder_SkipsUnchangedItems(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	require.NoError(t, repo.PutItems(ctx,
		embedded("1", "Navy Tshirt", 4),
		bare("2", "Blue Jeans"),
		embedded("3", "White Tshirt", 4),
	))

	// Item 3's description changed after it was embedded.
	changed, err := repo.GetItem(ctx, "3")
	require.NoError(t, err)
	changed.Description = "Off White Tshirt"
	require.NoError(t, repo.PutItems(ctx, *changed))

	vec := &countingVectorizer{dims: 4}
	r, err := NewReembedder(repo, vec, WithConfig(&Config{BatchSize: 2, ReportInterval: 1, Model: "test-model"}))
	require.NoError(t, err)

	result, err := r.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Scanned)
	assert.Equal(t, 2, result.Updated)
	assert.ElementsMatch(t, []string{"Blue Jeans", "Off White Tshirt"}, vec.texts)

	items, err := repo.AllItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 3)
	for _, item := range items {
		assert.False(t, item.IsStale(), item.Id)
		assert.Len(t, item.Embedding, 4)
	}
	assert.Equal(t, []string{"1", "2", "3"}, []string{items[0].Id, items[1].Id, items[2].Id}, "order is preserved")

	meta, err := repo.LoadMeta(ctx)
	require.NoError(t, err)
	require.NotNil(t, meta)
	assert.Equal(t, "test-model", meta.Model)
	assert.Equal(t, 4, meta.Dimensions)
	assert.Equal(t, 3, meta.Items)

	// A second run has nothing to do.
	vec.texts = nil
	result, err = r.Run(ctx)
	require.NoError(t, err)
	assert.Zero(t, result.Updated)
	assert.Empty(t, vec.texts)
}

func TestReembedder_DimensionChange(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	require.NoError(t, repo.PutItems(ctx, embedded("1", "Navy Tshirt", 4), embedded("2", "Red Tshirt", 8)))

	vec := &countingVectorizer{dims: 8}
	r, err := NewReembedder(repo, vec, WithConfig(&Config{BatchSize: 10, Dimensions: 8}))
	require.NoError(t, err)

	result, err := r.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Updated)
	assert.Equal(t, []string{"Navy Tshirt"}, vec.texts)

	meta, err := repo.LoadMeta(ctx)
	require.NoError(t, err)
	assert.Equal(t, 8, meta.Dimensions)
}

func TestReembedder_UsesStoredDimensions(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	require.NoError(t, repo.PutItems(ctx, embedded("1", "Navy Tshirt", 4)))
	require.NoError(t, repo.SaveMeta(ctx, core.CatalogMeta{Model: "old", Dimensions: 8, Items: 1}))

	vec := &countingVectorizer{dims: 8}
	r, err := NewReembedder(repo, vec)
	require.NoError(t, err)

	result, err := r.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Updated)

	meta, err := repo.LoadMeta(ctx)
	require.NoError(t, err)
	assert.Equal(t, "old", meta.Model, "model is kept when none configured")
}

func TestReembedder_WrongVectorSize(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	require.NoError(t, repo.PutItems(ctx, bare("1", "Blue Jeans")))

	r, err := NewReembedder(repo, &countingVectorizer{dims: 3}, WithConfig(&Config{BatchSize: 10, Dimensions: 4}))
	require.NoError(t, err)

	_, err = r.Run(ctx)
	assert.ErrorIs(t, err, core.ErrDimensionMismatch)

	item, err := repo.GetItem(ctx, "1")
	require.NoError(t, err)
	assert.False(t, item.HasEmbedding(), "nothing written on failure")
}

func TestReembedder_Force(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	require.NoError(t, repo.PutItems(ctx, embedded("1", "Navy Tshirt", 4), embedded("2", "Red Tshirt", 4)))

	vec := &countingVectorizer{dims: 4}
	r, err := NewReembedder(repo, vec, WithConfig(&Config{BatchSize: 1, Force: true, Normalize: true}))
	require.NoError(t, err)

	result, err := r.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Updated)
	assert.Equal(t, 2, vec.calls, "one call per batch")
}

func TestReembedder_ForceRecordsNewDimensions(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	require.NoError(t, repo.PutItems(ctx, embedded("1", "Navy Tshirt", 8), embedded("2", "Red Tshirt", 8)))
	require.NoError(t, repo.SaveMeta(ctx, core.CatalogMeta{Model: "small", Dimensions: 8, Items: 2}))

	r, err := NewReembedder(repo, &countingVectorizer{dims: 16}, WithConfig(&Config{BatchSize: 10, Force: true, Model: "large"}))
	require.NoError(t, err)
	result, err := r.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Updated)

	item, err := repo.GetItem(ctx, "1")
	require.NoError(t, err)
	assert.Len(t, item.Embedding, 16)
	meta, err := repo.LoadMeta(ctx)
	require.NoError(t, err)
	assert.Equal(t, 16, meta.Dimensions)
	assert.Equal(t, "large", meta.Model)

	// A plain run afterwards sees a consistent store.
	vec := &countingVectorizer{dims: 16}
	r, err = NewReembedder(repo, vec, WithConfig(&Config{BatchSize: 10}))
	require.NoError(t, err)
	result, err = r.Run(ctx)
	require.NoError(t, err)
	assert.Zero(t, result.Updated)
	assert.Zero(t, vec.calls)
}

func TestReembedder_EmbedError(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	require.NoError(t, repo.PutItems(ctx, bare("1", "Blue Jeans")))

	boom := errors.New("service down")
	r, err := NewReembedder(repo, &countingVectorizer{err: boom})
	require.NoError(t, err)

	_, err = r.Run(ctx)
	assert.ErrorIs(t, err, boom)

	meta, err := repo.LoadMeta(ctx)
	require.NoError(t, err)
	assert.Nil(t, meta, "metadata is only written after a complete run")
}

func TestReembedder_Cancelled(t *testing.T) {
	repo := newRepo(t)
	require.NoError(t, repo.PutItems(context.Background(), bare("1", "Blue Jeans")))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r, err := NewReembedder(repo, &countingVectorizer{dims: 4})
	require.NoError(t, err)

	_, err = r.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestReembedder_ManyBatches(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)

	items := make([]core.CatalogItem, 0, 25)
	for i := range 25 {
		items = append(items, bare(fmt.Sprintf("%d", i), fmt.Sprintf("Item number %d", i)))
	}
	require.NoError(t, repo.PutItems(ctx, items...))

	var out bytes.Buffer
	vec := &countingVectorizer{dims: 4}
	r, err := NewReembedder(repo, vec, WithProgress(&out), WithConfig(&Config{BatchSize: 10, ReportInterval: 10}))
	require.NoError(t, err)

	result, err := r.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 25, result.Scanned)
	assert.Equal(t, 25, result.Updated)
	assert.Equal(t, 3, vec.calls)
	assert.True(t, strings.Contains(out.String(), "Checked 25 items, re-embedded 25"))
}
