package services

import (
	"testing"

	"github.com/prefeitura-rio/app-pessoas/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPageWindow_Pages(t *testing.T) {
	tests := []struct {
		name    string
		current int
		total   int
		want    []int
	}{
		{"single page", 1, 1, []int{1}},
		{"five pages", 3, 5, []int{1, 2, 3, 4, 5}},
		{"near start", 2, 10, []int{1, 2, 3, 4, 0, 10}},
		{"third page", 3, 10, []int{1, 2, 3, 4, 0, 10}},
		{"middle", 5, 10, []int{1, 0, 4, 5, 6, 0, 10}},
		{"near end", 8, 10, []int{1, 0, 7, 8, 9, 10}},
		{"last page", 10, 10, []int{1, 0, 7, 8, 9, 10}},
		{"six pages middle", 4, 6, []int{1, 0, 3, 4, 5, 6}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := BuildPageWindow(tt.current, tt.total, tt.total*10, 10)
			assert.Equal(t, tt.want, w.Pages)
		})
	}
}

func TestBuildPageWindow_Items(t *testing.T) {
	w := BuildPageWindow(3, 3, 25, 10)
	assert.Equal(t, 21, w.StartItem)
	assert.Equal(t, 25, w.EndItem)
	assert.True(t, w.Visible)

	w = BuildPageWindow(1, 1, 4, 10)
	assert.Equal(t, 1, w.StartItem)
	assert.Equal(t, 4, w.EndItem)
	assert.False(t, w.Visible)
}

func TestBuildPageWindow_EmptyAndOutOfRange(t *testing.T) {
	w := BuildPageWindow(0, 0, 0, 0)
	assert.Equal(t, []int{1}, w.Pages)
	assert.Zero(t, w.StartItem)
	assert.Zero(t, w.EndItem)
	assert.False(t, w.Visible)

	w = BuildPageWindow(99, 4, 40, 10)
	assert.Equal(t, 31, w.StartItem)
	assert.Equal(t, 40, w.EndItem)
}

func TestPageWindowFor(t *testing.T) {
	w := PageWindowFor(models.PaginatedResponse[models.Person]{Page: 2, TotalPages: 7, Total: 65, Limit: 10})
	assert.Equal(t, []int{1, 2, 3, 4, 0, 7}, w.Pages)
	assert.Equal(t, 11, w.StartItem)
	assert.Equal(t, 20, w.EndItem)
}

func TestParsePaginationParams(t *testing.T) {
	params, err := ParsePaginationParams("", "", "  ana ")
	require.NoError(t, err)
	assert.Equal(t, models.PaginationParams{Page: 1, Limit: 10, Search: "ana"}, params)

	params, err = ParsePaginationParams("3", "25", "")
	require.NoError(t, err)
	assert.Equal(t, 3, params.Page)
	assert.Equal(t, 25, params.Limit)

	for _, bad := range [][2]string{{"0", ""}, {"x", ""}, {"", "0"}, {"", "101"}, {"", "ten"}} {
		_, err := ParsePaginationParams(bad[0], bad[1], "")
		assert.Error(t, err, "page=%q limit=%q", bad[0], bad[1])
	}
}
