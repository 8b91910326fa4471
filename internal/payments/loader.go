// Package payments loads payment exports (Zelle-style CSV, OFX/QFX bank
// statements) into transactions for revenue and payment cross-referencing.
package payments

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Veraticus/tiffin/internal/common"
	"github.com/Veraticus/tiffin/internal/model"
)

// Loader reads one payment export.
type Loader interface {
	Load(ctx context.Context, r io.Reader) ([]model.Transaction, error)
}

// LoaderFor picks a loader from the file extension.
func LoaderFor(path string) (Loader, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		return NewCSVLoader(nil), nil
	case ".ofx", ".qfx":
		return NewOFXLoader(), nil
	default:
		return nil, fmt.Errorf("%w: %q (expected .csv, .ofx or .qfx)", common.ErrUnsupportedFormat, filepath.Base(path))
	}
}

// LoadFiles loads every export, drops repeats across files and returns the
// transactions sorted by date.
func LoadFiles(ctx context.Context, paths []string) ([]model.Transaction, error) {
	var all []model.Transaction
	for _, path := range paths {
		loader, err := LoaderFor(path)
		if err != nil {
			return nil, err
		}

		txns, err := loadFile(ctx, loader, path)
		if err != nil {
			return nil, fmt.Errorf("failed to load payments from %s: %w", path, err)
		}
		slog.Debug("Loaded payment export", "file", path, "transactions", len(txns))
		all = append(all, txns...)
	}

	unique := Dedupe(all)
	if dropped := len(all) - len(unique); dropped > 0 {
		slog.Info("Skipped duplicate payments", "duplicates", dropped)
	}
	sortByDate(unique)
	return unique, nil
}

func loadFile(ctx context.Context, loader Loader, path string) ([]model.Transaction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			slog.Warn("Failed to close payment export", "file", path, "error", cerr)
		}
	}()
	return loader.Load(ctx, f)
}

// Dedupe drops transactions whose hash was already seen, keeping the first.
// Overlapping exports of the same account produce such repeats.
func Dedupe(txns []model.Transaction) []model.Transaction {
	seen := make(map[string]bool, len(txns))
	unique := make([]model.Transaction, 0, len(txns))
	for _, tx := range txns {
		hash := tx.GenerateHash()
		if seen[hash] {
			continue
		}
		seen[hash] = true
		unique = append(unique, tx)
	}
	return unique
}

func sortByDate(txns []model.Transaction) {
	sort.SliceStable(txns, func(i, j int) bool {
		return txns[i].Date.Before(txns[j].Date)
	})
}
