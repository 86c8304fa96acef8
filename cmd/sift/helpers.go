package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/Veraticus/journal-sift/internal/common"
	"github.com/Veraticus/journal-sift/internal/service"
	"github.com/Veraticus/journal-sift/internal/storage"
)

var envKeyReplacer = strings.NewReplacer(".", "_")

// initStorage opens the configured database and brings its schema up to date.
func initStorage(ctx context.Context) (service.Storage, error) {
	store, err := storage.NewSQLiteStorage(appConfig.DatabasePath)
	if err != nil {
		return nil, err
	}

	// Run migrations
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// closeStore closes store, logging rather than returning a failure.
func closeStore(store service.Storage) {
	if err := store.Close(); err != nil {
		common.LogError(err, "Failed to close database", common.Fields{"database": appConfig.DatabasePath})
	}
}

// writeFile creates path and hands it to write, closing it afterwards.
func writeFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", path, closeErr)
		}
	}()

	if err := write(f); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	slog.Info("Wrote export", "path", path)
	return nil
}

// parseDelimiter turns a flag value into a CSV delimiter; empty means sniff.
func parseDelimiter(s string) (rune, error) {
	switch s {
	case "":
		return 0, nil
	case `\t`, "tab":
		return '\t', nil
	}
	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("delimiter must be a single character, got %q", s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r, nil
}
