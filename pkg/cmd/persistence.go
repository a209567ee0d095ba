// Package cmd provides common initialization for the intake binaries.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/herreralegal/intake/pkg/persistence"
	"github.com/herreralegal/intake/pkg/persistence/file"
	"github.com/herreralegal/intake/pkg/persistence/postgresql"
)

// NewPersistence selects the storage adapter from the database URL scheme:
// postgres:// and postgresql:// use the PostgreSQL adapter, anything else is
// treated as a filesystem root for the file adapter.
func NewPersistence(ctx context.Context, logger *slog.Logger, databaseURL string) (persistence.Persistence, error) {
	switch parsePersistenceProvider(databaseURL) {
	case "postgresql":
		p, err := postgresql.NewPersistence(ctx, logger, databaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to create postgresql persistence: %w", err)
		}

		return p, nil
	default:
		return file.NewPersistence(strings.TrimPrefix(databaseURL, "file://")), nil
	}
}

func parsePersistenceProvider(databaseURL string) string {
	scheme, _, found := strings.Cut(databaseURL, "://")
	if !found {
		return "file"
	}

	switch scheme {
	case "postgres", "postgresql":
		return "postgresql"
	default:
		return "file"
	}
}
