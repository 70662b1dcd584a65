package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPaginationParams(t *testing.T) {
	tests := []struct {
		name       string
		page       int
		pageSize   int
		wantPage   int
		wantSize   int
		wantOffset int
	}{
		{"defaults", 0, 0, 1, 20, 0},
		{"third page", 3, 10, 3, 10, 20},
		{"oversized limit falls back", 2, 500, 2, 20, 20},
		{"negative page", -4, 5, 1, 5, 0},
		{"offset saturates", math.MaxInt/20 + 2, 20, math.MaxInt/20 + 2, 20, math.MaxInt},
		{"largest page", math.MaxInt, 100, math.MaxInt, 100, math.MaxInt},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPaginationParams(tt.page, tt.pageSize, 20)
			assert.Equal(t, tt.wantPage, p.Page)
			assert.Equal(t, tt.wantSize, p.PageSize)
			assert.Equal(t, tt.wantOffset, p.Offset)
			assert.GreaterOrEqual(t, p.Offset, 0)
		})
	}
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 0, TotalPages(0, 10))
	assert.Equal(t, 1, TotalPages(10, 10))
	assert.Equal(t, 3, TotalPages(21, 10))
	assert.Equal(t, 0, TotalPages(5, 0))
}
