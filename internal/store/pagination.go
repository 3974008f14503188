package store

import (
	"context"
	"encoding/base64"
	"encoding/json/v2"
	"fmt"
	"strings"

	"github.com/dgraph-io/badger/v4"
)

// PaginationParams contains pagination request parameters.
type PaginationParams struct {
	Limit  int    // Items per page (defaults to 100 with a maximum of 1000)
	Cursor string // Opaque cursor for the next page (empty for first page)
}

// PaginatedResult contains paginated data and metadata.
type PaginatedResult[T any] struct {
	Items      []T    `json:"items"`
	NextCursor string `json:"next_cursor,omitempty"` // Empty if no more pages
	HasMore    bool   `json:"has_more"`
}

// DefaultPaginationParams returns sensible defaults.
func DefaultPaginationParams() PaginationParams {
	return PaginationParams{
		Limit: 100,
	}
}

// Validate checks and corrects pagination parameters.
func (p *PaginationParams) Validate() {
	if p.Limit <= 0 {
		p.Limit = 100
	}
	if p.Limit > 1000 {
		p.Limit = 1000
	}
}

// EncodeCursor creates an opaque cursor from the last seen key.
func EncodeCursor(key string) string {
	if key == "" {
		return ""
	}
	return base64.URLEncoding.EncodeToString([]byte(key))
}

// DecodeCursor decodes a cursor back to a key.
func DecodeCursor(cursor string) (string, error) {
	if cursor == "" {
		return "", nil
	}

	decoded, err := base64.URLEncoding.DecodeString(cursor)
	if err != nil {
		return "", fmt.Errorf("invalid cursor: %w", err)
	}

	return string(decoded), nil
}

// ListPage returns one page of entities in key order, starting after the
// cursor's position.
func (e *Entity[T]) ListPage(ctx context.Context, params PaginationParams) (*PaginatedResult[*T], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	params.Validate()

	startKey, err := DecodeCursor(params.Cursor)
	if err != nil {
		return nil, err
	}

	result := &PaginatedResult[*T]{
		Items: make([]*T, 0, params.Limit),
	}

	err = e.store.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(e.prefix)
		opts.PrefetchValues = true

		it := txn.NewIterator(opts)
		defer it.Close()

		seek := []byte(e.prefix)
		if startKey != "" {
			seek = []byte(startKey)
		}

		var lastKey string
		for it.Seek(seek); it.ValidForPrefix([]byte(e.prefix)); it.Next() {
			key := string(it.Item().Key())

			// Skip the cursor row itself and all index/lookup keys.
			if key == startKey {
				continue
			}
			remainder := key[len(e.prefix):]
			if strings.HasPrefix(remainder, "idx:") || strings.HasPrefix(remainder, "lk:") {
				continue
			}

			if len(result.Items) >= params.Limit {
				result.HasMore = true
				result.NextCursor = EncodeCursor(lastKey)
				return nil
			}

			var entity T
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &entity)
			})
			if err != nil {
				return err
			}

			result.Items = append(result.Items, &entity)
			lastKey = key
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}
