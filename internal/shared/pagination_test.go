package shared

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	_ "github.com/intralink/intralink/testing"
)

func TestNewPagination(t *testing.T) {
	p := NewPagination(2, 20, 45)
	require.Equal(t, Pagination{Page: 2, Limit: 20, Total: 45, TotalPages: 3}, p)

	p = NewPagination(1, 20, 0)
	require.Equal(t, 0, p.TotalPages)

	p = NewPagination(0, 0, 10)
	require.Equal(t, 1, p.Page)
	require.Equal(t, DefaultPageSize, p.Limit)
}

func TestPageParams(t *testing.T) {
	r := httptest.NewRequest("GET", "/?page=3&limit=50", nil)
	page, limit := PageParams(r)
	require.Equal(t, 3, page)
	require.Equal(t, 50, limit)

	r = httptest.NewRequest("GET", "/", nil)
	page, limit = PageParams(r)
	require.Equal(t, 1, page)
	require.Equal(t, DefaultPageSize, limit)

	r = httptest.NewRequest("GET", "/?page=-1&limit=9999", nil)
	page, limit = PageParams(r)
	require.Equal(t, 1, page)
	require.Equal(t, MaxPageSize, limit)
}

func TestOffset(t *testing.T) {
	require.Equal(t, 0, Offset(1, 20))
	require.Equal(t, 20, Offset(2, 20))
	require.Equal(t, 0, Offset(0, 20))
}
