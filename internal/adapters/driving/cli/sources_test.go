package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paritel/osm-search/internal/adapters/driven/config/file"
)

func TestSourcesCmd_ListsAllSources(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"sources"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "tender")
	assert.Contains(t, out, "product_service")
	assert.Contains(t, out, "library_document")
	assert.Contains(t, out, "[enabled]")
}

func TestSourcesCmd_DisableAndEnable(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"sources", "disable", "library_document"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, buf.String(), "Disabled source library_document")
	assert.Equal(t, []string{"library_document"}, configStore.GetStringSlice(file.KeyDisabledSources))

	// Disabling again is a no-op
	buf.Reset()
	rootCmd.SetArgs([]string{"sources", "disable", "library_document"})
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, buf.String(), "already disabled")

	// List reflects the state
	buf.Reset()
	rootCmd.SetArgs([]string{"sources", "list"})
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, buf.String(), "[disabled]")

	// Re-enable
	buf.Reset()
	rootCmd.SetArgs([]string{"sources", "enable", "library_document"})
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, buf.String(), "Enabled source library_document")
	assert.Empty(t, configStore.GetStringSlice(file.KeyDisabledSources))
}

func TestSourcesCmd_RejectsUnknownType(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"sources", "disable", "invoice"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invoice")
}

func TestSourcesCmd_RejectsDocumentAlias(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"sources", "disable", "document"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	// The alias is a search filter, not a concrete source.
	err := rootCmd.Execute()

	require.Error(t, err)
}
