package catalog

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/mrlokans/bookly/internal/entities"
)

// VolumeFetcher looks a single volume up by provider id.
type VolumeFetcher interface {
	Volume(ctx context.Context, id string) (*entities.Book, error)
}

// BookStore persists catalog entries.
type BookStore interface {
	AddBook(ctx context.Context, book *entities.Book) (*entities.Book, error)
}

// Importer copies provider volumes into the local catalog.
type Importer struct {
	fetcher VolumeFetcher
	store   BookStore
}

func NewImporter(fetcher VolumeFetcher, store BookStore) *Importer {
	return &Importer{fetcher: fetcher, store: store}
}

// ImportBook fetches id from the provider and stores it under the same id.
// The caller is expected to have checked that the id is not stored yet.
// Provider errors are returned as is.
func (i *Importer) ImportBook(ctx context.Context, id string) (*entities.Book, error) {
	book, err := i.fetcher.Volume(ctx, id)
	if err != nil {
		return nil, err
	}
	book.ID = id

	stored, err := i.store.AddBook(ctx, book)
	if err != nil {
		return nil, err
	}

	log.Info().Str("book_id", id).Str("title", stored.Title).Msg("imported book from provider")
	return stored, nil
}
