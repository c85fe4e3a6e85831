package prompt

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleLibrary = `base_contract:
  description: A minimal coin contract
  content: |
    Write a Sui Move module implementing a basic fungible coin.
  system_prompt: You are a Move compiler engineer.
nft_contract:
  description: An NFT contract
  content: |
    Write a Sui Move module implementing an NFT collection.
`

func writeLibrary(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sui_move.yaml"), []byte(sampleLibrary), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))
	return dir
}

func TestLoadAndGet(t *testing.T) {
	lib, err := Load(writeLibrary(t))
	require.NoError(t, err)

	entry, err := lib.Get("sui_move.base_contract")
	require.NoError(t, err)
	assert.Contains(t, entry.Content, "fungible coin")
	assert.Equal(t, "You are a Move compiler engineer.", entry.SystemPrompt)
	assert.Equal(t, "A minimal coin contract", entry.Description)
}

func TestGet_DefaultSystemPrompt(t *testing.T) {
	lib, err := Load(writeLibrary(t))
	require.NoError(t, err)

	entry, err := lib.Get("sui_move.nft_contract")
	require.NoError(t, err)
	assert.Equal(t, DefaultSystemPrompt, entry.SystemPrompt)
}

func TestGet_Errors(t *testing.T) {
	lib, err := Load(writeLibrary(t))
	require.NoError(t, err)

	_, err = lib.Get("sui_move.missing")
	assert.ErrorContains(t, err, "not found")

	_, err = lib.Get("unknown.base_contract")
	assert.ErrorContains(t, err, "namespace")

	_, err = lib.Get("malformed-path")
	assert.ErrorContains(t, err, "namespace.name form")
}

func TestList(t *testing.T) {
	lib, err := Load(writeLibrary(t))
	require.NoError(t, err)

	assert.Equal(t, []string{"sui_move.base_contract", "sui_move.nft_contract"}, lib.List())
}

func TestDescription(t *testing.T) {
	lib, err := Load(writeLibrary(t))
	require.NoError(t, err)

	assert.Equal(t, "An NFT contract", lib.Description("sui_move.nft_contract"))
	assert.Equal(t, "", lib.Description("sui_move.missing"))
}

func TestLoad_MissingDirectory(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}
