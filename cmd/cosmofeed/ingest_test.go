package main

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cosmofeed/cosmofeed/internal/embedder"
	"github.com/cosmofeed/cosmofeed/internal/storage"
	"github.com/cosmofeed/cosmofeed/pkg/types"
)

func TestRunIngest(t *testing.T) {
	store, err := storage.NewSQLiteStore(":memory:", embedder.NewLocalProvider(nil))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	input := strings.Join([]string{
		`{"kind":"paper","id":"2501.1","title":"Dark energy survey","summary":"DES results","authors":["A. Ruiz"]}`,
		`{"kind":"video","id":"v1","title":"Starship launch","channel":"SpaceX"}`,
		`{"kind":"nasa","id":"n1","title":"Europa clipper","mediaType":"image","center":"JPL"}`,
		`{"kind":"translation","itemType":"paper","itemId":"2501.1","lang":"zh-TW","title":"暗能量巡天"}`,
		``,
		`not json at all`,
	}, "\n")

	err = runIngest(context.Background(), store, strings.NewReader(input), types.LocaleEN, false)
	require.NoError(t, err)

	st, err := store.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, st.Papers)
	assert.Equal(t, 1, st.Videos)
	assert.Equal(t, 1, st.NasaItems)
	assert.Equal(t, 1, st.Translations)
	assert.Equal(t, 3, st.Embeddings, "each content record is embedded")

	rows, err := store.FindByIDs(context.Background(), types.ContentPaper, []string{"2501.1"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, []string{"A. Ruiz"}, rows[0].Authors)
}

func TestRunIngest_SkipEmbed(t *testing.T) {
	store, err := storage.NewSQLiteStore(":memory:", embedder.NewLocalProvider(nil))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	input := `{"kind":"paper","id":"p1","title":"t"}`
	require.NoError(t, runIngest(context.Background(), store, strings.NewReader(input), types.LocaleEN, true))

	st, err := store.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, st.Papers)
	assert.Equal(t, 0, st.Embeddings)
}

func TestRunIngest_UnknownKindFails(t *testing.T) {
	store, err := storage.NewSQLiteStore(":memory:", embedder.NewLocalProvider(nil))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	input := `{"kind":"podcast","id":"x","title":"t"}`
	err = runIngest(context.Background(), store, strings.NewReader(input), types.LocaleEN, true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "podcast")
}

func TestContentTypeFor(t *testing.T) {
	ct, err := contentTypeFor("paper")
	require.NoError(t, err)
	assert.Equal(t, types.ContentPaper, ct)

	_, err = contentTypeFor("")
	require.Error(t, err)
}
