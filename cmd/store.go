package main

import (
	"context"

	"github.com/sells-group/uhi-synth/internal/store"
)

// initStore opens the configured run registry backend.
func initStore(ctx context.Context) (store.Store, error) {
	if err := cfg.Validate("store"); err != nil {
		return nil, err
	}

	if cfg.Store.Driver == "postgres" {
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL)
	}
	return store.NewSQLite(cfg.Store.Path)
}
