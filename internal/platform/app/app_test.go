package app

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/bizbooks/internal/platform/config"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestBuild_Memory(t *testing.T) {
	a, err := Build(context.Background(), &config.Config{StorageDriver: config.StorageMemory}, discardLogger(), Options{})
	require.NoError(t, err)
	defer a.Close()

	assert.Nil(t, a.Redis)
	require.NotNil(t, a.Services)
	assert.NotNil(t, a.Services.Transaction)
	assert.NotEmpty(t, a.Services.Catalog.ListCategories(context.Background()))
}

func TestBuild_Errors(t *testing.T) {
	_, err := Build(context.Background(), &config.Config{StorageDriver: "sqlite"}, discardLogger(), Options{})
	assert.ErrorContains(t, err, "unknown storage driver")

	_, err = Build(context.Background(), &config.Config{StorageDriver: config.StorageMemory, CategoriesFile: "does-not-exist.yaml"}, discardLogger(), Options{})
	assert.ErrorContains(t, err, "failed to read categories file")
}

func TestBuild_CategoriesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "categories.yaml")
	doc := `version: 7
categories:
  - {name: "Opening Balance (Cash)", group: opening_balance, ledgerEffect: cash, relevantTo: none, natureHint: neutral, amountSign: any}
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	a, err := Build(context.Background(), &config.Config{StorageDriver: config.StorageMemory, CategoriesFile: path}, discardLogger(), Options{})
	require.NoError(t, err)
	defer a.Close()
	assert.Equal(t, 7, a.Categories.Version())
	assert.Len(t, a.Categories.All(), 1)
}
