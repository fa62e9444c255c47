package pagination

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedPages returns a PageFunc serving the given pages in order, with an
// empty cursor after the last one.
func scriptedPages(t *testing.T, pages [][]string, calls *int) PageFunc[string] {
	t.Helper()
	return func(_ context.Context, cursor string) ([]string, string, error) {
		idx := *calls
		*calls++
		require.Less(t, idx, len(pages), "fetched past the last page")

		next := ""
		if idx < len(pages)-1 {
			next = fmt.Sprintf("cursor-%d", idx+1)
		}
		return pages[idx], next, nil
	}
}

func TestCollectAllPages(t *testing.T) {
	calls := 0
	fetch := scriptedPages(t, [][]string{
		{"a", "b"},
		{"c", "d"},
		{"e", "f"},
	}, &calls)

	items, err := Collect(context.Background(), fetch, Options{})
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b", "c", "d", "e", "f"}, items)
	assert.Equal(t, 3, calls, "exactly one fetch per page")
}

func TestCollectLimitTruncates(t *testing.T) {
	calls := 0
	fetch := scriptedPages(t, [][]string{
		{"a", "b"},
		{"c", "d"},
		{"e", "f"},
	}, &calls)

	items, err := Collect(context.Background(), fetch, Options{Limit: 4})
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b", "c", "d"}, items)
	assert.Equal(t, 2, calls, "limit reached after the second page")
}

func TestCollectLimitMidPage(t *testing.T) {
	calls := 0
	fetch := scriptedPages(t, [][]string{
		{"a", "b", "c"},
		{"d", "e", "f"},
	}, &calls)

	items, err := Collect(context.Background(), fetch, Options{Limit: 5})
	require.NoError(t, err)
	assert.Len(t, items, 5, "aggregate truncated to exactly the limit")
}

func TestCollectSinglePage(t *testing.T) {
	calls := 0
	fetch := scriptedPages(t, [][]string{{"only"}}, &calls)

	items, err := Collect(context.Background(), fetch, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"only"}, items)
	assert.Equal(t, 1, calls)
}

func TestCollectWhitespaceCursorTerminates(t *testing.T) {
	calls := 0
	fetch := func(context.Context, string) ([]string, string, error) {
		calls++
		return []string{"x"}, "  ", nil
	}

	items, err := Collect(context.Background(), fetch, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, items)
	assert.Equal(t, 1, calls)
}

func TestCollectPropagatesFetchError(t *testing.T) {
	fetchErr := errors.New("boom")
	fetch := func(context.Context, string) ([]string, string, error) {
		return nil, "", fetchErr
	}

	_, err := Collect(context.Background(), fetch, Options{})
	assert.True(t, errors.Is(err, fetchErr))
}

func TestCollectPageCap(t *testing.T) {
	// A remote that never returns an empty cursor.
	calls := 0
	fetch := func(context.Context, string) ([]string, string, error) {
		calls++
		return []string{"x"}, "again", nil
	}

	items, err := Collect(context.Background(), fetch, Options{MaxPages: 5})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTooManyPages))
	assert.Equal(t, 5, calls)
	assert.Len(t, items, 5, "items collected before the cap are returned")
}
