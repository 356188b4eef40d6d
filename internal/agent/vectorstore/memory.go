// Package vectorstore provides the in-process vector index adapter. The real
// index is an external collaborator; this adapter implements the same query
// contract (eino retriever.Retriever) over an in-memory corpus so the core
// can run and be tested without one.
package vectorstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"unicode"

	"github.com/cloudwego/eino/components/retriever"
	"github.com/cloudwego/eino/schema"
)

const defaultTopK = 5

// MemoryIndex is a lexical in-memory document index. Scores are the fraction
// of distinct query terms found in the document, so they fall in [0, 1] with
// higher meaning more relevant.
type MemoryIndex struct {
	mu   sync.RWMutex
	docs []indexedDoc
}

type indexedDoc struct {
	doc    *schema.Document
	tokens map[string]struct{}
}

// NewMemoryIndex creates an index over the given documents. More documents
// can be added later with Add.
func NewMemoryIndex(docs ...*schema.Document) *MemoryIndex {
	idx := &MemoryIndex{}
	idx.Add(docs...)
	return idx
}

// Add indexes additional documents.
func (m *MemoryIndex) Add(docs ...*schema.Document) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, d := range docs {
		if d == nil {
			continue
		}
		m.docs = append(m.docs, indexedDoc{doc: d, tokens: tokenize(d.Content)})
	}
}

// Retrieve implements retriever.Retriever. Results are ordered by descending
// score with ties kept in insertion order; zero-score documents are dropped,
// so an empty result is a valid outcome, not an error.
func (m *MemoryIndex) Retrieve(ctx context.Context, query string, opts ...retriever.Option) ([]*schema.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	options := retriever.GetCommonOptions(&retriever.Options{}, opts...)
	topK := defaultTopK
	if options.TopK != nil && *options.TopK > 0 {
		topK = *options.TopK
	}

	queryTokens := tokenize(query)
	if len(queryTokens) == 0 {
		return nil, nil
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	type scored struct {
		doc   *schema.Document
		score float64
	}
	results := make([]scored, 0, len(m.docs))
	for _, entry := range m.docs {
		overlap := 0
		for tok := range queryTokens {
			if _, ok := entry.tokens[tok]; ok {
				overlap++
			}
		}
		if overlap == 0 {
			continue
		}
		results = append(results, scored{
			doc:   entry.doc,
			score: float64(overlap) / float64(len(queryTokens)),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].score > results[j].score
	})
	if len(results) > topK {
		results = results[:topK]
	}

	out := make([]*schema.Document, len(results))
	for i, r := range results {
		// Copy before attaching the score so the indexed document stays
		// immutable across queries.
		doc := &schema.Document{
			ID:       r.doc.ID,
			Content:  r.doc.Content,
			MetaData: r.doc.MetaData,
		}
		out[i] = doc.WithScore(r.score)
	}
	return out, nil
}

func tokenize(text string) map[string]struct{} {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	tokens := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if len(f) < 2 {
			continue
		}
		tokens[f] = struct{}{}
	}
	return tokens
}
