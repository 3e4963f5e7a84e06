package catalog

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/mrlokans/bookly/internal/entities"
)

// Searcher runs a search against the provider.
type Searcher interface {
	Search(ctx context.Context, q SearchQuery) ([]entities.Book, error)
}

// SearchCache stores search results by query key.
type SearchCache interface {
	Get(ctx context.Context, key string) ([]entities.Book, bool, error)
	Set(ctx context.Context, key string, books []entities.Book) error
}

// Service answers searches, consulting the cache first when one is set.
// Cache failures are logged and otherwise ignored.
type Service struct {
	provider Searcher
	cache    SearchCache
}

// NewService creates a search service. cache may be nil.
func NewService(provider Searcher, cache SearchCache) *Service {
	return &Service{provider: provider, cache: cache}
}

func (s *Service) Search(ctx context.Context, q SearchQuery) ([]entities.Book, error) {
	key := q.Key()

	if s.cache != nil {
		books, ok, err := s.cache.Get(ctx, key)
		if err != nil {
			log.Warn().Err(err).Str("key", key).Msg("search cache read failed")
		} else if ok {
			return books, nil
		}
	}

	books, err := s.provider.Search(ctx, q)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, books); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("search cache write failed")
		}
	}
	return books, nil
}
