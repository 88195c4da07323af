package index

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStorePutPersistsWholeMapping(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "indexed_content.json")

	st, err := OpenFile(path)
	require.NoError(t, err)
	require.NoError(t, st.Put(ctx, "https://a.example", "Alpha text."))
	require.NoError(t, st.Put(ctx, "https://b.example", "Beta <text> & more."))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var onDisk map[string]string
	require.NoError(t, json.Unmarshal(raw, &onDisk))
	assert.Equal(t, map[string]string{
		"https://a.example": "Alpha text.",
		"https://b.example": "Beta <text> & more.",
	}, onDisk)
	assert.Contains(t, string(raw), "\n    \"https://a.example\"")

	reopened, err := OpenFile(path)
	require.NoError(t, err)
	text, ok, err := reopened.Get(ctx, "https://b.example")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Beta <text> & more.", text)
}

func TestFileStoreOverwrite(t *testing.T) {
	ctx := context.Background()
	st, err := OpenFile(filepath.Join(t.TempDir(), "idx.json"))
	require.NoError(t, err)

	require.NoError(t, st.Put(ctx, "u", "old"))
	require.NoError(t, st.Put(ctx, "u", "new"))

	text, ok, err := st.Get(ctx, "u")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "new", text)

	urls, err := st.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"u"}, urls)
}

func TestFileStoreMissingAndCorrupt(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	missing, err := OpenFile(filepath.Join(dir, "absent.json"))
	require.NoError(t, err)
	_, ok, err := missing.Get(ctx, "x")
	require.NoError(t, err)
	assert.False(t, ok)

	corruptPath := filepath.Join(dir, "corrupt.json")
	require.NoError(t, os.WriteFile(corruptPath, []byte("{not json"), 0o644))
	corrupt, err := OpenFile(corruptPath)
	require.NoError(t, err)
	urls, err := corrupt.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, urls)
}

func TestFileStoreConcurrentPuts(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "idx.json")
	st, err := OpenFile(path)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, st.Put(ctx, string(rune('a'+i)), "text"))
		}(i)
	}
	wg.Wait()

	reopened, err := OpenFile(path)
	require.NoError(t, err)
	urls, err := reopened.List(ctx)
	require.NoError(t, err)
	assert.Len(t, urls, 20)
}
