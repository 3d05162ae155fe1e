package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/stylematch/ai"
	"github.com/poiesic/stylematch/ai/mock"
	"github.com/poiesic/stylematch/catalog"
	"github.com/poiesic/stylematch/core"
	"github.com/poiesic/stylematch/storage/badger"
	"github.com/poiesic/stylematch/vectorize"
)

const testDims = 8

type fieldTokenizer struct{}

func (fieldTokenizer) Encode(text string) []int {
	return make([]int, len(strings.Fields(text)))
}

func (fieldTokenizer) Decode(tokens []int) string {
	return strings.TrimSpace(strings.Repeat("x ", len(tokens)))
}

// stubServices makes every command use provider and a word tokenizer.
func stubServices(t *testing.T) *mock.MockProvider {
	t.Helper()
	embedder := mock.NewMockEmbedder()
	embedder.Dimensions = testDims
	captioner := mock.NewMockCaptioner()
	captioner.Result = core.Caption{
		Items:    []string{"Black Leather Belt"},
		Category: "Jeans",
		Gender:   core.GenderMen,
	}
	provider := mock.NewMockProviderWithServices(embedder, captioner, nil).(*mock.MockProvider)

	oldProvider, oldTokenizer := newProvider, newTokenizer
	newProvider = func(*ai.Config) (ai.AIProvider, error) { return provider, nil }
	newTokenizer = func() (vectorize.Tokenizer, error) { return fieldTokenizer{}, nil }
	t.Cleanup(func() {
		newProvider, newTokenizer = oldProvider, oldTokenizer
	})
	return provider
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &errOut

	base := []string{"stylematch", "--log-level", "error", "--env-file", filepath.Join(t.TempDir(), "absent.env")}
	err := app.Run(append(base, args...))
	return out.String(), errOut.String(), err
}

func writeCatalog(t *testing.T, n, dims int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.csv")
	require.NoError(t, catalog.Save(path, catalog.Sample(n, dims, 11)))
	return path
}

func writeImage(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestSetupLogger_InvalidLevel(t *testing.T) {
	_, _, err := run(t, "--log-level", "loud", "stats", "--input", "x.csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}

func TestCommandFlags(t *testing.T) {
	app := newApp()

	names := make([]string, 0, len(app.Commands))
	for _, cmd := range app.Commands {
		names = append(names, cmd.Name)
	}
	assert.Equal(t, []string{"embed", "stats", "reembed", "match", "recommend", "check"}, names)

	t.Run("gender is required for match", func(t *testing.T) {
		stubServices(t)
		_, _, err := run(t, "match", "--catalog", writeCatalog(t, 5, testDims), "Blue Jeans")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "gender")
	})

	t.Run("store is required for reembed", func(t *testing.T) {
		_, _, err := run(t, "reembed")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "store")
	})
}

func TestStatsCommand(t *testing.T) {
	stubServices(t)
	path := writeCatalog(t, 10, 0)

	out, _, err := run(t, "stats", "--input", path, "--cost-per-1k", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Descriptions:   10")
	assert.Contains(t, out, "Estimated cost: $")
}

func TestEmbedAndReembedCommands(t *testing.T) {
	stubServices(t)
	input := writeCatalog(t, 20, 0)
	dir := t.TempDir()
	output := filepath.Join(dir, "embedded.csv")
	store := filepath.Join(dir, "store")

	out, errOut, err := run(t, "embed", "--input", input, "--output", output, "--store", store, "--batch-size", "4", "--concurrency", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote 20 items (8 dimensions)")
	assert.Contains(t, out, "Stored 20 items")
	assert.Contains(t, errOut, "Embedding 20 descriptions")

	f, err := os.Open(output)
	require.NoError(t, err)
	cat, err := catalog.ReadCSV(f)
	require.NoError(t, f.Close())
	require.NoError(t, err)
	assert.Equal(t, 20, cat.Embedded())

	out, _, err = run(t, "reembed", "--store", store)
	require.NoError(t, err)
	assert.Contains(t, out, "Checked 20 items, re-embedded 0")

	out, _, err = run(t, "reembed", "--store", store, "--force", "--batch-size", "7")
	require.NoError(t, err)
	assert.Contains(t, out, "re-embedded 20")

	repo, err := badger.NewRepository(store)
	require.NoError(t, err)
	defer repo.Close()
	meta, err := repo.LoadMeta(context.Background())
	require.NoError(t, err)
	require.NotNil(t, meta)
	assert.Equal(t, testDims, meta.Dimensions)
	assert.Equal(t, 20, meta.Items)
}

func TestMatchCommand(t *testing.T) {
	stubServices(t)
	path := writeCatalog(t, 100, testDims)

	out, errOut, err := run(t, "match", "--catalog", path, "--gender", "men", "--exclude", "Tshirts",
		"--threshold=-1", "--top-k", "3", "--verbose", "Navy Chinos", "White Sneakers")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 6)
	assert.True(t, strings.HasPrefix(lines[0], "Navy Chinos\t"))
	assert.True(t, strings.HasPrefix(lines[3], "White Sneakers\t"))
	for _, line := range lines {
		assert.NotContains(t, strings.Split(line, "\t")[3], "Tshirts")
	}
	assert.Contains(t, errOut, "Matching 2 descriptions for Men, excluding Tshirts")
	assert.Contains(t, errOut, "Done: 6 matches")
}

func TestMatchCommand_NoMatches(t *testing.T) {
	stubServices(t)
	path := writeCatalog(t, 10, testDims)

	out, _, err := run(t, "match", "--catalog", path, "--gender", "Women", "--threshold=1", "Red Dress")
	require.NoError(t, err)
	assert.Equal(t, "No matches\n", out)
}

func TestMatchCommand_InvalidGender(t *testing.T) {
	stubServices(t)
	_, _, err := run(t, "match", "--catalog", writeCatalog(t, 5, testDims), "--gender", "Aliens", "Hat")
	assert.ErrorIs(t, err, core.ErrInvalidGender)
}

func TestMatchCommand_SampleFallback(t *testing.T) {
	stubServices(t)
	missing := filepath.Join(t.TempDir(), "missing.csv")

	out, _, err := run(t, "--embedding-dimensions", "8", "match", "--catalog", missing, "--sample", "50",
		"--gender", "Women", "--threshold=-1", "Floral Dress")
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 2)

	_, _, err = run(t, "match", "--catalog", missing, "--gender", "Women", "Floral Dress")
	assert.ErrorIs(t, err, catalog.ErrCatalogUnavailable)
}

func TestRecommendCommand(t *testing.T) {
	provider := stubServices(t)
	path := writeCatalog(t, 100, testDims)
	image := writeImage(t, "jeans.jpg", []byte("denim"))

	out, _, err := run(t, "recommend", "--catalog", path, "--threshold=-1", image)
	require.NoError(t, err)
	assert.Contains(t, out, "Garment: Jeans (Men)")
	assert.Contains(t, out, "Black Leather Belt\t")
	assert.Equal(t, 1, provider.GetMockCaptioner().CallCount())
	assert.True(t, provider.Closed())
}

func TestCheckCommand(t *testing.T) {
	stubServices(t)
	a := writeImage(t, "a.png", []byte("shirt"))
	b := writeImage(t, "b.png", []byte("trousers"))

	out, _, err := run(t, "check", a, b)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "yes: "))

	out, _, err = run(t, "check", a, a)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "no: "))

	_, _, err = run(t, "check", a)
	assert.Error(t, err)
}
