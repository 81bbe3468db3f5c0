package migration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateMigration(t *testing.T) {
	dir := t.TempDir()

	mf, err := CreateMigration(dir, "Add Payment Terms", "supplier payment terms column")
	require.NoError(t, err)

	assert.Equal(t, "000001", mf.Version)
	assert.Equal(t, filepath.Join(dir, "000001_add_payment_terms.up.sql"), mf.UpPath)
	assert.Equal(t, filepath.Join(dir, "000001_add_payment_terms.down.sql"), mf.DownPath)

	up, err := os.ReadFile(mf.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(up), "Add Payment Terms")
	assert.Contains(t, string(up), "supplier payment terms column")

	down, err := os.ReadFile(mf.DownPath)
	require.NoError(t, err)
	assert.Contains(t, string(down), "Rollback")
}

func TestCreateMigration_SequentialVersions(t *testing.T) {
	dir := t.TempDir()

	first, err := CreateMigration(dir, "first", "")
	require.NoError(t, err)
	second, err := CreateMigration(dir, "second", "")
	require.NoError(t, err)

	assert.Equal(t, "000001", first.Version)
	assert.Equal(t, "000002", second.Version)
}

func TestListMigrations(t *testing.T) {
	dir := t.TempDir()

	t.Run("empty directory", func(t *testing.T) {
		migrations, err := ListMigrations(dir)
		require.NoError(t, err)
		assert.Empty(t, migrations)
	})

	t.Run("missing directory", func(t *testing.T) {
		migrations, err := ListMigrations(filepath.Join(dir, "does-not-exist"))
		require.NoError(t, err)
		assert.Empty(t, migrations)
	})

	t.Run("lists up migrations once", func(t *testing.T) {
		_, err := CreateMigration(dir, "create tables", "")
		require.NoError(t, err)
		_, err = CreateMigration(dir, "add indexes", "")
		require.NoError(t, err)

		migrations, err := ListMigrations(dir)
		require.NoError(t, err)
		assert.Equal(t, []string{"000001_create_tables", "000002_add_indexes"}, migrations)
	})
}

func TestSanitizeName(t *testing.T) {
	assert.Equal(t, "add_users_table", sanitizeName("Add Users Table"))
	assert.Equal(t, "fix_fk", sanitizeName("fix--FK!!"))
	assert.Equal(t, "trailing", sanitizeName("trailing "))
}
