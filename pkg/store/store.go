package store

import (
	"context"
	"fmt"
	"slices"
)

// Store persists compiled style sheet blobs keyed by page id. Blobs are
// opaque to the store.
type Store interface {
	// Put creates or replaces the blob of a page.
	Put(ctx context.Context, pageID int64, blob []byte) error
	// Get returns ErrNotFound when the page has no blob.
	Get(ctx context.Context, pageID int64) ([]byte, error)
	// GetMany returns the blobs of the pages that have one. Missing and
	// non-positive ids are absent from the result.
	GetMany(ctx context.Context, pageIDs []int64) (map[int64][]byte, error)
	// Delete removes the blob of a page. Deleting a missing page is not an
	// error.
	Delete(ctx context.Context, pageID int64) error
}

func validatePut(pageID int64, blob []byte) error {
	if err := validateID(pageID); err != nil {
		return err
	}
	if len(blob) == 0 {
		return ErrEmptyBlob
	}
	return nil
}

func validateID(pageID int64) error {
	if pageID <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidPageID, pageID)
	}
	return nil
}

// normalizeIDs drops non-positive ids and duplicates and sorts the rest.
func normalizeIDs(ids []int64) []int64 {
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id > 0 {
			out = append(out, id)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}
