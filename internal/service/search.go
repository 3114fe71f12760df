package service

import (
	"context"
	"strings"
	"time"

	"github.com/mediconnect/mediconnect/internal/metrics"
	"github.com/mediconnect/mediconnect/internal/model"
)

// ProviderSearcher runs keyword queries against the store.
type ProviderSearcher interface {
	SearchProviders(ctx context.Context, keyword string) ([]model.ProviderMatch, error)
}

// SearchService answers free-text provider queries.
type SearchService struct {
	searcher ProviderSearcher
	metrics  metrics.Recorder
}

// NewSearchService creates a new SearchService.
func NewSearchService(searcher ProviderSearcher, recorder metrics.Recorder) *SearchService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &SearchService{searcher: searcher, metrics: recorder}
}

// Search returns doctors whose name, specialization or hospital name
// contains keyword, case-insensitively. A blank keyword returns an empty
// result without touching the store.
func (s *SearchService) Search(ctx context.Context, keyword string) ([]model.ProviderMatch, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return []model.ProviderMatch{}, nil
	}

	start := time.Now()
	matches, err := s.searcher.SearchProviders(ctx, keyword)
	if err != nil {
		return nil, storageError("search providers", err)
	}
	if matches == nil {
		matches = []model.ProviderMatch{}
	}

	s.metrics.ObserveSearch(len(matches), time.Since(start))

	return matches, nil
}
