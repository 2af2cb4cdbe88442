// Package app assembles the statements stack from a loaded configuration.
package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/de-tools/statement-atlas/pkg/services/config"
	"github.com/de-tools/statement-atlas/pkg/services/statements"
	"github.com/de-tools/statement-atlas/pkg/store/duckdb"
	snapshots "github.com/de-tools/statement-atlas/pkg/store/duckdb/statements"
	"github.com/de-tools/statement-atlas/pkg/store/fmp"
	"github.com/de-tools/statement-atlas/pkg/store/objectstore"
)

// Credentials opens the credential profiles file named by cfg, if any.
func Credentials(cfg *config.Config) (config.CredentialRegistry, error) {
	return config.OpenCredentials(cfg.API.CredentialsPath)
}

// NewStatementsService resolves the API key, builds the FMP client and, when
// caching is enabled, the DuckDB snapshot store. The returned close func
// releases the database.
func NewStatementsService(ctx context.Context, cfg *config.Config) (statements.Service, func() error, error) {
	logger := zerolog.Ctx(ctx)
	noop := func() error { return nil }

	registry, err := Credentials(cfg)
	if err != nil {
		return nil, noop, err
	}
	key, err := config.ResolveAPIKey(cfg, registry)
	if err != nil {
		return nil, noop, err
	}

	client, err := fmp.NewClient(fmp.Config{
		BaseURL:    cfg.API.BaseURL,
		APIKey:     key,
		Symbol:     cfg.API.Symbol,
		Period:     cfg.API.Period,
		HTTPClient: &http.Client{Timeout: cfg.API.Timeout},
	})
	if err != nil {
		return nil, noop, err
	}

	opts := statements.Options{
		Client: client,
		TTL:    cfg.Cache.TTL,
		Scale:  cfg.Filter.Scale(),
	}
	closeFn := noop

	if cfg.Cache.Enabled {
		db, err := duckdb.NewDB(duckdb.Settings{DbPath: cfg.Cache.Path})
		if err != nil {
			return nil, noop, fmt.Errorf("failed to create DuckDB instance: %w", err)
		}
		store, err := snapshots.NewStore(db)
		if err != nil {
			_ = db.Close()
			return nil, noop, fmt.Errorf("failed to create statements store: %w", err)
		}
		opts.Store = store
		closeFn = db.Close
		logger.Debug().Str("path", cfg.Cache.Path).Dur("ttl", cfg.Cache.TTL).Msg("statements cache enabled")
	}

	return statements.NewService(opts), closeFn, nil
}

func NewUploader(ctx context.Context, cfg *config.Config) (objectstore.Uploader, error) {
	return objectstore.NewS3UploaderFromProfile(ctx, cfg.Export.AWSProfile, cfg.Export.Region)
}
