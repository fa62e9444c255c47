// Package pagination aggregates multi-page listing responses into single
// logical collections.
//
// Two traversal shapes are supported:
//
//   - Cursor pagination (Slack Web API): the remote returns an opaque
//     next_cursor token; Collect loops until the cursor comes back empty or
//     a caller-supplied item limit is reached.
//   - Indexed pagination (Slack SCIM): the remote reports totalResults and
//     pages are addressed by a 1-based startIndex. CollectIndexed walks the
//     pages sequentially; BatchPager fetches them with a bounded worker
//     pool once the first page has revealed the total.
//
// Example usage:
//
//	users, err := pagination.Collect(ctx, func(ctx context.Context, cursor string) ([]User, string, error) {
//	    body, err := api.Call(ctx, "users.list", argsWith(cursor))
//	    ...
//	}, pagination.Options{Limit: 500})
//
// Cursor traversal has no inherent iteration bound of its own: a remote that
// keeps returning a non-empty cursor would loop forever. Options.MaxPages
// puts a safety cap on that; it is off by default to preserve the legacy
// trust-the-server behavior.
package pagination
