package vectorstore

import (
	"context"
	"testing"

	"github.com/cloudwego/eino/components/retriever"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDocs() []*schema.Document {
	return []*schema.Document{
		{ID: "a", Content: "alpha beta gamma delta"},
		{ID: "b", Content: "alpha beta"},
		{ID: "c", Content: "alpha"},
		{ID: "d", Content: "completely unrelated words"},
	}
}

func TestRetrieveOrdersByDescendingScore(t *testing.T) {
	idx := NewMemoryIndex(testDocs()...)

	docs, err := idx.Retrieve(context.Background(), "alpha beta gamma")

	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.Equal(t, "a", docs[0].ID)
	assert.Equal(t, "b", docs[1].ID)
	assert.Equal(t, "c", docs[2].ID)
	for i := 1; i < len(docs); i++ {
		assert.GreaterOrEqual(t, docs[i-1].Score(), docs[i].Score())
	}
}

func TestRetrieveScoresAreNormalized(t *testing.T) {
	idx := NewMemoryIndex(testDocs()...)

	docs, err := idx.Retrieve(context.Background(), "alpha beta gamma")

	require.NoError(t, err)
	require.NotEmpty(t, docs)
	assert.Equal(t, 1.0, docs[0].Score())
	for _, d := range docs {
		assert.Greater(t, d.Score(), 0.0)
		assert.LessOrEqual(t, d.Score(), 1.0)
	}
}

func TestRetrieveHonorsTopK(t *testing.T) {
	idx := NewMemoryIndex(testDocs()...)

	docs, err := idx.Retrieve(context.Background(), "alpha beta gamma", retriever.WithTopK(1))

	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "a", docs[0].ID)
}

func TestRetrieveDropsZeroScoreDocuments(t *testing.T) {
	idx := NewMemoryIndex(testDocs()...)

	docs, err := idx.Retrieve(context.Background(), "zeta eta theta")

	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestRetrieveEmptyQuery(t *testing.T) {
	idx := NewMemoryIndex(testDocs()...)

	docs, err := idx.Retrieve(context.Background(), "  ! ?  ")

	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestRetrieveStableTieOrder(t *testing.T) {
	idx := NewMemoryIndex(
		&schema.Document{ID: "first", Content: "alpha"},
		&schema.Document{ID: "second", Content: "alpha"},
	)

	docs, err := idx.Retrieve(context.Background(), "alpha")

	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "first", docs[0].ID)
	assert.Equal(t, "second", docs[1].ID)
}

func TestRetrieveDoesNotMutateIndexedDocuments(t *testing.T) {
	original := &schema.Document{ID: "a", Content: "alpha beta"}
	idx := NewMemoryIndex(original)

	_, err := idx.Retrieve(context.Background(), "alpha")
	require.NoError(t, err)

	// The score lives on the returned copy, not the stored document.
	assert.Empty(t, original.MetaData)
}

func TestRetrieveCanceledContext(t *testing.T) {
	idx := NewMemoryIndex(testDocs()...)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := idx.Retrieve(ctx, "alpha")

	assert.Error(t, err)
}

func TestAddIndexesNewDocuments(t *testing.T) {
	idx := NewMemoryIndex()
	idx.Add(&schema.Document{ID: "late", Content: "omega arrived late"})

	docs, err := idx.Retrieve(context.Background(), "omega")

	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "late", docs[0].ID)
}
