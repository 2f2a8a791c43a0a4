package pagination

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type row struct {
	id      string
	created time.Time
}

func rowID(r row) string         { return r.id }
func rowCreated(r row) time.Time { return r.created }

func rows(ids ...string) []row {
	base := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)
	out := make([]row, len(ids))
	for i, id := range ids {
		out[i] = row{id: id, created: base.Add(time.Duration(i) * time.Minute)}
	}
	return out
}

func TestPaginationParamsValidate(t *testing.T) {
	p := &PaginationParams{Page: 0, PerPage: 500}
	p.Validate()
	require.Equal(t, 1, p.Page)
	require.Equal(t, MaxPerPage, p.PerPage)

	p = &PaginationParams{Page: 3, PerPage: 0}
	p.Validate()
	require.Equal(t, DefaultPerPage, p.PerPage)
	require.Equal(t, 2*DefaultPerPage, p.Offset())
}

func TestNewPagination(t *testing.T) {
	meta := NewPagination(2, 10, 21)
	require.Equal(t, 3, meta.TotalPages)
	require.True(t, meta.HasNext)
	require.True(t, meta.HasPrev)

	meta = NewPagination(1, 10, 0)
	require.Equal(t, 0, meta.TotalPages)
	require.False(t, meta.HasNext)
	require.False(t, meta.HasPrev)
}

func TestNewPaginatedResultNeverNil(t *testing.T) {
	result := NewPaginatedResult[row](nil, NewPagination(1, 10, 0))
	require.NotNil(t, result.Items)
	require.Empty(t, result.Items)
}

func TestCursorRoundTrip(t *testing.T) {
	at := time.Date(2026, 2, 14, 10, 30, 0, 0, time.UTC)
	params := &CursorParams{Cursor: EncodeCursor("inv-1", at)}

	cursor, err := params.DecodeCursor()
	require.NoError(t, err)
	require.Equal(t, "inv-1", cursor.ID)
	require.True(t, at.Equal(cursor.CreatedAt))
}

func TestDecodeCursorRejectsGarbage(t *testing.T) {
	_, err := (&CursorParams{Cursor: "%%%"}).DecodeCursor()
	require.Error(t, err)

	cursor, err := (&CursorParams{}).DecodeCursor()
	require.NoError(t, err)
	require.Nil(t, cursor)
}

func TestNewCursorPaginationForward(t *testing.T) {
	params := &CursorParams{Limit: 2}
	params.Validate()

	meta, page := NewCursorPagination(rows("a", "b", "c"), params, rowID, rowCreated)
	require.Len(t, page, 2)
	require.Equal(t, "a", page[0].id)
	require.True(t, meta.HasNext)
	require.False(t, meta.HasPrev)
	require.NotNil(t, meta.NextCursor)

	next := &CursorParams{Cursor: *meta.NextCursor, Limit: 2}
	next.Validate()
	meta, page = NewCursorPagination(rows("c"), next, rowID, rowCreated)
	require.Len(t, page, 1)
	require.False(t, meta.HasNext)
	require.True(t, meta.HasPrev)
}

func TestNewCursorPaginationBackward(t *testing.T) {
	params := &CursorParams{Cursor: EncodeCursor("d", time.Now()), Direction: CursorDirectionPrev, Limit: 2}
	params.Validate()
	require.True(t, params.Backward())

	// Backward reads arrive nearest first
	meta, page := NewCursorPagination([]row{{id: "c"}, {id: "b"}, {id: "a"}}, params, rowID, rowCreated)
	require.Equal(t, []string{"b", "c"}, []string{page[0].id, page[1].id})
	require.True(t, meta.HasPrev)
	require.True(t, meta.HasNext)
}

func TestCursorParamsValidateDefaults(t *testing.T) {
	params := &CursorParams{Direction: "sideways", Limit: 1000}
	params.Validate()
	require.Equal(t, CursorDirectionNext, params.Direction)
	require.Equal(t, MaxPerPage, params.Limit)
	require.False(t, params.Backward())
}
