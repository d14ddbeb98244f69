package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/viper"

	"github.com/Veraticus/ledgerlens/internal/common"
	"github.com/Veraticus/ledgerlens/internal/config"
	"github.com/Veraticus/ledgerlens/internal/reference"
	"github.com/Veraticus/ledgerlens/internal/storage"
)

func loadSettings() (*config.Settings, error) {
	return config.Load(viper.GetViper())
}

// initStorage opens the report database and brings its schema up to date.
func initStorage(ctx context.Context, settings *config.Settings) (*storage.SQLiteStorage, error) {
	if err := config.EnsureParentDir(settings.DatabasePath); err != nil {
		return nil, err
	}

	store, err := storage.NewSQLiteStorage(settings.DatabasePath)
	if err != nil {
		return nil, err
	}
	if err := store.Migrate(ctx); err != nil {
		closeStore(store)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return store, nil
}

func closeStore(store *storage.SQLiteStorage) {
	if err := store.Close(); err != nil {
		common.LogError(err, "Failed to close database", common.Fields{"path": store.Path()})
	}
}

// loadVertical resolves reference data. A reference file wins over the
// built-in tables; its own vertical_id decides which built-ins fill gaps.
func loadVertical(verticalID, referencePath string) (*reference.Vertical, error) {
	if referencePath != "" {
		v, err := reference.Load(config.ExpandPath(referencePath))
		if err != nil {
			return nil, fmt.Errorf("failed to load reference data: %w", err)
		}
		return v, nil
	}
	return reference.Builtin(verticalID), nil
}

// splitList flattens repeated and comma-separated flag values.
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}
