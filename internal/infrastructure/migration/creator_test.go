package migration

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/erp/supplychain/migrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"add bills index", "add_bills_index"},
		{"Add-Bills-Index", "add_bills_index"},
		{"ADD__BILLS__INDEX", "add_bills_index"},
		{"quotes v2", "quotes_v2"},
		{"   spaces   ", "spaces"},
		{"stock!@#$items", "stockitems"},
		{"_leading", "leading"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeName(tt.input))
		})
	}
}

func TestCreateMigration(t *testing.T) {
	dir := t.TempDir()

	first, err := CreateMigration(dir, "add bill notes", "Free text on bills")
	require.NoError(t, err)
	assert.Equal(t, "000001", first.Version)
	assert.Equal(t, filepath.Join(dir, "000001_add_bill_notes.up.sql"), first.UpPath)
	assert.Equal(t, filepath.Join(dir, "000001_add_bill_notes.down.sql"), first.DownPath)

	up, err := os.ReadFile(first.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(up), "000001_add_bill_notes (up)")
	assert.Contains(t, string(up), "Free text on bills")

	down, err := os.ReadFile(first.DownPath)
	require.NoError(t, err)
	assert.Contains(t, string(down), "(down)")

	second, err := CreateMigration(dir, "index quotes by status", "")
	require.NoError(t, err)
	assert.Equal(t, "000002", second.Version)

	names, err := ListMigrations(os.DirFS(dir))
	require.NoError(t, err)
	assert.Equal(t, []string{"000001_add_bill_notes", "000002_index_quotes_by_status"}, names)
}

func TestCreateMigration_RejectsEmptyName(t *testing.T) {
	_, err := CreateMigration(t.TempDir(), "!!!", "")
	assert.Error(t, err)
}

func TestNextVersion_SkipsGaps(t *testing.T) {
	fsys := fstest.MapFS{
		"000001_init.up.sql":      {},
		"000001_init.down.sql":    {},
		"000007_quotes.up.sql":    {},
		"README.md":               {},
		"notanumber_thing.up.sql": {},
	}
	next, err := nextVersion(fsys)
	require.NoError(t, err)
	assert.Equal(t, 8, next)
}

func TestEmbeddedMigrations(t *testing.T) {
	names, err := ListMigrations(migrations.FS)
	require.NoError(t, err)
	require.NotEmpty(t, names)
	assert.Equal(t, "000001_init", names[0])

	for _, n := range names {
		_, err := migrations.FS.Open(n + ".down.sql")
		assert.NoError(t, err, "%s has no down migration", n)
	}
}
