package helper

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePaging(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  Paging
	}{
		{name: "defaults", query: "", want: Paging{Page: 1, PerPage: 20, Offset: 0, Limit: 20}},
		{name: "page and per_page", query: "?page=3&per_page=10", want: Paging{Page: 3, PerPage: 10, Offset: 20, Limit: 10}},
		{name: "limit alias", query: "?limit=5", want: Paging{Page: 1, PerPage: 5, Offset: 0, Limit: 5}},
		{name: "capped", query: "?per_page=500", want: Paging{Page: 1, PerPage: 100, Offset: 0, Limit: 100}},
		{name: "garbage", query: "?page=x&per_page=-4", want: Paging{Page: 1, PerPage: 20, Offset: 0, Limit: 20}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Paging
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error {
				got = ResolvePaging(c, DefaultPerPage, MaxPerPage)
				return nil
			})
			_, err := app.Test(httptest.NewRequest("GET", "/"+tt.query, nil))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPaging_Pagination(t *testing.T) {
	p := Paging{Page: 2, PerPage: 10}.Pagination(25)
	assert.Equal(t, 3, p.TotalPages)
	assert.True(t, p.HasNext)
	assert.True(t, p.HasPrev)

	empty := Paging{Page: 1, PerPage: 10}.Pagination(0)
	assert.Equal(t, 1, empty.TotalPages)
	assert.False(t, empty.HasNext)
}
