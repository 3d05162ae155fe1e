package ai

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/poiesic/stylematch/core"
)

// LoadConfig builds a Config from defaults, dotenv files and the process
// environment, in increasing order of precedence. With no arguments it
// reads ".env" from the working directory. Missing dotenv files are ignored.
func LoadConfig(dotenvFiles ...string) (*Config, error) {
	if len(dotenvFiles) == 0 {
		dotenvFiles = []string{".env"}
	}
	for _, f := range dotenvFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: loading %s: %w", core.ErrConfiguration, f, err)
		}
	}
	return configFromEnv(env.Options{})
}

func configFromEnv(opts env.Options) (*Config, error) {
	cfg := DefaultConfig()
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrConfiguration, err)
	}
	return cfg, nil
}
