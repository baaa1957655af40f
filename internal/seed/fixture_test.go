package seed

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFixture(t *testing.T) {
	t.Run("Empty path yields empty fixture", func(t *testing.T) {
		fixture, err := loadFixture("")
		require.NoError(t, err)
		assert.Empty(t, fixture.Categories)
		assert.Empty(t, fixture.Tags)
	})

	t.Run("Parses categories and tags", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "fixture.yml")
		content := "categories:\n  - Travel\n  - Food\ntags:\n  - go\n  - web\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		fixture, err := loadFixture(path)
		require.NoError(t, err)
		assert.Equal(t, []string{"Travel", "Food"}, fixture.Categories)
		assert.Equal(t, []string{"go", "web"}, fixture.Tags)
	})

	t.Run("Missing file errors", func(t *testing.T) {
		_, err := loadFixture(filepath.Join(t.TempDir(), "nope.yml"))
		assert.Error(t, err)
	})

	t.Run("Invalid YAML errors", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yml")
		require.NoError(t, os.WriteFile(path, []byte("categories: [unclosed"), 0o644))

		_, err := loadFixture(path)
		assert.Error(t, err)
	})
}
