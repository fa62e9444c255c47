package pagination

import (
	"context"
	"errors"
	"strings"
)

// ErrTooManyPages is returned when Options.MaxPages is set and the remote
// kept producing non-empty cursors past the cap.
var ErrTooManyPages = errors.New("pagination: page cap exceeded")

// PageFunc fetches one page. It receives the cursor from the previous page
// (empty on the first call) and returns the page's items together with the
// next cursor; an empty next cursor ends the traversal.
type PageFunc[T any] func(ctx context.Context, cursor string) (items []T, nextCursor string, err error)

// Options bounds a cursor traversal.
type Options struct {
	// Limit truncates the aggregate to exactly this many items when > 0.
	Limit int

	// MaxPages caps the number of page fetches when > 0. Exceeding it
	// returns the items collected so far together with ErrTooManyPages.
	MaxPages int
}

// Collect walks all pages of a cursor-paginated listing and returns the
// aggregated items. Termination: empty next cursor, the item limit, or the
// page cap, whichever comes first.
func Collect[T any](ctx context.Context, fetch PageFunc[T], opts Options) ([]T, error) {
	var (
		out    []T
		cursor string
		pages  int
	)

	for {
		items, next, err := fetch(ctx, cursor)
		if err != nil {
			return nil, err
		}
		out = append(out, items...)
		pages++

		if opts.Limit > 0 && len(out) >= opts.Limit {
			return out[:opts.Limit], nil
		}

		next = strings.TrimSpace(next)
		if next == "" {
			return out, nil
		}
		if opts.MaxPages > 0 && pages >= opts.MaxPages {
			return out, ErrTooManyPages
		}
		cursor = next
	}
}
