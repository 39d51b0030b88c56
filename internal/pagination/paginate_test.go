package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginate(t *testing.T) {
	items := make([]int, 25)
	for i := range items {
		items[i] = i
	}

	tests := []struct {
		name  string
		size  int
		page  int
		first int
		count int
	}{
		{"first page", 10, 1, 0, 10},
		{"middle page", 10, 2, 10, 10},
		{"short last page", 10, 3, 20, 5},
		{"page below one treated as one", 10, 0, 0, 10},
		{"negative page treated as one", 10, -3, 0, 10},
		{"exact boundary page", 5, 5, 20, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Paginate(items, tt.size, tt.page)
			assert.Len(t, got, tt.count)
			if tt.count > 0 {
				assert.Equal(t, tt.first, got[0])
			}
		})
	}
}

func TestPaginatePastEnd(t *testing.T) {
	items := []string{"a", "b", "c"}

	got := Paginate(items, 10, 2)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	got = Paginate(items, 3, 99)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestPaginateEmptyInput(t *testing.T) {
	got := Paginate([]int{}, 10, 1)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestPaginateZeroSize(t *testing.T) {
	assert.Nil(t, Paginate([]int{1, 2, 3}, 0, 1))
}
