package ai

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/stylematch/core"
)

func TestConfigFromEnv(t *testing.T) {
	t.Run("empty environment keeps defaults", func(t *testing.T) {
		cfg, err := configFromEnv(env.Options{Environment: map[string]string{}})
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("variables override defaults", func(t *testing.T) {
		cfg, err := configFromEnv(env.Options{Environment: map[string]string{
			"STYLEMATCH_EMBEDDING_HOST":       "http://embed:8080",
			"STYLEMATCH_EMBEDDING_MODEL":      "text-embedding-3-small",
			"STYLEMATCH_EMBEDDING_DIMENSIONS": "1536",
			"STYLEMATCH_VISION_MODEL":         "gpt-4o",
			"OPENAI_API_KEY":                  "sk-env",
		}})
		require.NoError(t, err)

		assert.Equal(t, "http://embed:8080", cfg.EmbeddingHost)
		assert.Equal(t, OpenAIHost, cfg.VisionHost)
		assert.Equal(t, "text-embedding-3-small", cfg.EmbeddingModel)
		assert.Equal(t, 1536, cfg.EmbeddingDimensions)
		assert.Equal(t, "gpt-4o", cfg.VisionModel)
		assert.Equal(t, "sk-env", cfg.APIKey)
	})

	t.Run("bad integer is a configuration error", func(t *testing.T) {
		_, err := configFromEnv(env.Options{Environment: map[string]string{
			"STYLEMATCH_EMBEDDING_DIMENSIONS": "lots",
		}})
		assert.ErrorIs(t, err, core.ErrConfiguration)
	})
}

func TestLoadConfig_Dotenv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(path, []byte("STYLEMATCH_VISION_MODEL=gpt-4.1-mini\n"), 0o600))

	// godotenv never overrides variables that are already set.
	t.Setenv("STYLEMATCH_VISION_MODEL", "")
	require.NoError(t, os.Unsetenv("STYLEMATCH_VISION_MODEL"))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "gpt-4.1-mini", cfg.VisionModel)

	// Leave the process environment as we found it.
	require.NoError(t, os.Unsetenv("STYLEMATCH_VISION_MODEL"))
}

func TestLoadConfig_MissingDotenv(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.env"))
	assert.NoError(t, err)
}
