package pg

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrations(t *testing.T) {
	entries, err := fs.ReadDir(migrations, "migrations")
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	data, err := fs.ReadFile(migrations, "migrations/"+entries[0].Name())
	require.NoError(t, err)
	assert.Contains(t, string(data), "-- +goose Up")
	assert.Contains(t, string(data), "CREATE TABLE IF NOT EXISTS page_styles")
}

func TestConnect_EmptyConnectionString(t *testing.T) {
	_, err := Connect(t.Context(), Config{})
	assert.ErrorIs(t, err, ErrEmptyConnectionString)
}

func TestConnect_InvalidConnectionString(t *testing.T) {
	_, err := Connect(t.Context(), Config{ConnectionString: "postgres://%zz"})
	assert.ErrorIs(t, err, ErrFailedToParseDBConfig)
}
