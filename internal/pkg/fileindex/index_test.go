package fileindex

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestIndex(t *testing.T) *Index {
	t.Helper()

	idx, err := Open(filepath.Join(t.TempDir(), "file_index.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = idx.Close() })

	return idx
}

func TestIndex_RecordAndQuery(t *testing.T) {
	idx := newTestIndex(t)
	ctx := context.Background()

	require.NoError(t, idx.Record(ctx, "req-1", "JaneDoe", KindContract, "Vertrag_JaneDoe_1714500000000.docx"))
	require.NoError(t, idx.Record(ctx, "req-1", "JaneDoe", KindPassport, "passport_JaneDoe_1714500000001_scan.jpg"))
	require.NoError(t, idx.Record(ctx, "req-2", "JohnDoe", KindContract, "Vertrag_JohnDoe_1714500000002.docx"))

	entries, err := idx.ByRequestID(ctx, "req-1")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, KindContract, entries[0].Kind)
	assert.Equal(t, "Vertrag_JaneDoe_1714500000000.docx", entries[0].FileName)
	assert.Equal(t, KindPassport, entries[1].Kind)
	assert.False(t, entries[0].CreatedAt.IsZero())
}

func TestIndex_ByGuest(t *testing.T) {
	idx := newTestIndex(t)
	ctx := context.Background()

	require.NoError(t, idx.Record(ctx, "req-1", "JaneDoe", KindContract, "Vertrag_JaneDoe_1714500000000.docx"))
	require.NoError(t, idx.Record(ctx, "req-3", "JaneDoe", KindSignedContract, "Signierter_Vertrag_JaneDoe_1714500000003.docx"))

	// Имя гостя нормализуется так же, как при записи
	entries, err := idx.ByGuest(ctx, "Jane Doe")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "req-1", entries[0].RequestID)
	assert.Equal(t, "req-3", entries[1].RequestID)
}

func TestIndex_ByFileName(t *testing.T) {
	idx := newTestIndex(t)
	ctx := context.Background()

	require.NoError(t, idx.Record(ctx, "req-1", "JaneDoe", KindContract, "Vertrag_JaneDoe_1714500000000.docx"))

	entry, ok, err := idx.ByFileName(ctx, "Vertrag_JaneDoe_1714500000000.docx")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "req-1", entry.RequestID)
	assert.Equal(t, KindContract, entry.Kind)

	_, ok, err = idx.ByFileName(ctx, "missing.docx")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestIndex_UnknownRequest(t *testing.T) {
	idx := newTestIndex(t)

	entries, err := idx.ByRequestID(context.Background(), "missing")
	require.NoError(t, err)
	assert.Empty(t, entries)
}
