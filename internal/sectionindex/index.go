// Package sectionindex provides full-text search over the scored sections of
// one analysis.
package sectionindex

import (
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/blevesearch/bleve/v2"

	"github.com/dgallion1/docsight/internal/persona"
)

// DefaultMaxResults caps a search when the caller passes no limit.
const (
	DefaultMaxResults = 10
	maxResults        = 50
	batchSize         = 100
)

// entry is the indexed form of a section.
type entry struct {
	Document       string  `json:"document"`
	SectionTitle   string  `json:"section_title"`
	Content        string  `json:"content"`
	PageNumber     int     `json:"page_number"`
	Rank           int     `json:"rank"`
	RelevanceScore float64 `json:"relevance_score"`
}

// Hit is one search result.
type Hit struct {
	Document       string  `json:"document"`
	SectionTitle   string  `json:"section_title"`
	Content        string  `json:"content"`
	PageNumber     int     `json:"page_number"`
	Rank           int     `json:"rank"`
	RelevanceScore float64 `json:"relevance_score"`
	Score          float64 `json:"score"`
}

// Index is an in-memory bleve index over ranked sections.
type Index struct {
	index bleve.Index
}

// Build indexes sections in the order given. The position in the slice is
// stored as the section's rank.
func Build(sections []persona.Section) (*Index, error) {
	idx, err := bleve.NewMemOnly(bleve.NewIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("create index: %w", err)
	}

	batch := idx.NewBatch()
	for i, s := range sections {
		e := entry{
			Document:       s.Document,
			SectionTitle:   s.SectionTitle,
			Content:        s.Content,
			PageNumber:     s.PageNumber,
			Rank:           i + 1,
			RelevanceScore: s.RelevanceScore,
		}
		if err := batch.Index(strconv.Itoa(i+1), e); err != nil {
			idx.Close()
			return nil, fmt.Errorf("index section %d: %w", i+1, err)
		}
		if batch.Size() >= batchSize {
			if err := idx.Batch(batch); err != nil {
				idx.Close()
				return nil, fmt.Errorf("index batch: %w", err)
			}
			batch = idx.NewBatch()
		}
	}
	if batch.Size() > 0 {
		if err := idx.Batch(batch); err != nil {
			idx.Close()
			return nil, fmt.Errorf("index final batch: %w", err)
		}
	}
	return &Index{index: idx}, nil
}

// Search runs a match query against titles and content.
func (x *Index) Search(query string, max int) ([]Hit, error) {
	if max <= 0 {
		max = DefaultMaxResults
	}
	max = min(max, maxResults)

	req := bleve.NewSearchRequest(bleve.NewMatchQuery(query))
	req.Size = max
	req.Fields = []string{"*"}

	res, err := x.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	hits := make([]Hit, 0, len(res.Hits))
	for _, h := range res.Hits {
		hit := Hit{Score: h.Score}
		hit.Document, _ = h.Fields["document"].(string)
		hit.SectionTitle, _ = h.Fields["section_title"].(string)
		hit.Content, _ = h.Fields["content"].(string)
		if v, ok := h.Fields["page_number"].(float64); ok {
			hit.PageNumber = int(v)
		}
		if v, ok := h.Fields["rank"].(float64); ok {
			hit.Rank = int(v)
		}
		hit.RelevanceScore, _ = h.Fields["relevance_score"].(float64)
		hits = append(hits, hit)
	}
	return hits, nil
}

// Len returns the number of indexed sections.
func (x *Index) Len() int {
	n, err := x.index.DocCount()
	if err != nil {
		return 0
	}
	return int(n)
}

func (x *Index) Close() error {
	return x.index.Close()
}

type slot struct {
	idx      *Index
	lastUsed atomic.Int64 // unix nanos
}

// Registry keeps one index per analysis job. Searches run under the read
// lock and indexes are only closed under the write lock, so a replaced or
// evicted index is never closed mid-search.
type Registry struct {
	mu      sync.RWMutex
	indexes map[string]*slot
	now     func() time.Time
}

func NewRegistry() *Registry {
	return &Registry{indexes: make(map[string]*slot), now: time.Now}
}

// Put stores idx under id, closing any index it replaces.
func (r *Registry) Put(id string, idx *Index) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.putLocked(id, idx)
}

func (r *Registry) putLocked(id string, idx *Index) *slot {
	if old, ok := r.indexes[id]; ok && old.idx != idx {
		old.idx.Close()
	}
	s := &slot{idx: idx}
	s.lastUsed.Store(r.now().UnixNano())
	r.indexes[id] = s
	return s
}

// SearchOrBuild searches the index for id. When none is registered, build is
// called outside the lock and its index is registered before searching.
// built reports whether build ran.
func (r *Registry) SearchOrBuild(id, query string, max int, build func() (*Index, error)) (hits []Hit, built bool, err error) {
	r.mu.RLock()
	if s, ok := r.indexes[id]; ok {
		defer r.mu.RUnlock()
		s.lastUsed.Store(r.now().UnixNano())
		hits, err = s.idx.Search(query, max)
		return hits, false, err
	}
	r.mu.RUnlock()

	idx, err := build()
	if err != nil {
		return nil, true, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.indexes[id]
	if ok {
		// Built concurrently by another caller.
		idx.Close()
		s.lastUsed.Store(r.now().UnixNano())
	} else {
		s = r.putLocked(id, idx)
	}
	hits, err = s.idx.Search(query, max)
	return hits, true, err
}

// Remove closes and forgets the index for id.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.indexes[id]; ok {
		s.idx.Close()
		delete(r.indexes, id)
	}
}

// Sweep closes indexes not searched or stored within ttl and returns their ids.
func (r *Registry) Sweep(ttl time.Duration) []string {
	cutoff := r.now().Add(-ttl).UnixNano()

	r.mu.Lock()
	defer r.mu.Unlock()
	var removed []string
	for id, s := range r.indexes {
		if s.lastUsed.Load() < cutoff {
			s.idx.Close()
			delete(r.indexes, id)
			removed = append(removed, id)
		}
	}
	return removed
}
