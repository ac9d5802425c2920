package server

import (
	"errors"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/f-sync/followback/internal/relationship"
)

// DefaultAnalysisCacheSize bounds the number of analyses kept in memory.
const DefaultAnalysisCacheSize = 1024

const errMessageInvalidCacheSize = "analysis cache size must be positive"

// ErrInvalidCacheSize indicates a non-positive analysis store capacity.
var ErrInvalidCacheSize = errors.New(errMessageInvalidCacheSize)

// AnalysisStore keeps recent analysis results in memory, evicting the least recently used entry once
// capacity is reached. Results are never written to disk.
type AnalysisStore struct {
	cache *lru.Cache[string, relationship.AnalysisResult]
}

// NewAnalysisStore constructs a store holding at most capacity analyses.
func NewAnalysisStore(capacity int) (*AnalysisStore, error) {
	if capacity <= 0 {
		return nil, ErrInvalidCacheSize
	}
	cache, err := lru.New[string, relationship.AnalysisResult](capacity)
	if err != nil {
		return nil, err
	}
	return &AnalysisStore{cache: cache}, nil
}

// Save records result under a new random identifier and returns the identifier.
func (store *AnalysisStore) Save(result relationship.AnalysisResult) string {
	analysisID := uuid.NewString()
	store.cache.Add(analysisID, result)
	return analysisID
}

// Load returns the analysis stored under analysisID.
func (store *AnalysisStore) Load(analysisID string) (relationship.AnalysisResult, bool) {
	return store.cache.Get(analysisID)
}

// Len reports how many analyses are currently held.
func (store *AnalysisStore) Len() int {
	return store.cache.Len()
}
