package auth

import (
	"context"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationsAreEmbedded(t *testing.T) {
	entries, err := fs.ReadDir(GetMigrationsFS(), migrationsRoot)
	require.NoError(t, err)

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}

	assert.Contains(t, names, "1_create_users.up.sql")
	assert.Contains(t, names, "2_create_fogbugz_profiles.up.sql")
	assert.Contains(t, names, "2_create_fogbugz_profiles.down.sql")
}

func TestMigrateIsIdempotent(t *testing.T) {
	db := newTestDB(t)

	version, err := Migrate(db.DB)
	require.NoError(t, err)
	assert.Equal(t, uint(2), version)

	var count int
	err = db.NewSelect().
		TableExpr("sqlite_master").
		ColumnExpr("COUNT(*)").
		Where("type = 'table' AND name IN (?, ?)", "users", "fogbugz_profiles").
		Scan(context.Background(), &count)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
