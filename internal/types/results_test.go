package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSearchFilters_ValidDefaults(t *testing.T) {
	f := &SearchFilters{}

	err := f.Validate()
	assert.NoError(t, err)

	f.Normalize()
	assert.Equal(t, 1, f.Page)
	assert.Equal(t, 20, f.PageSize)
	assert.Equal(t, SortByRelevance, f.SortBy)
}

func TestSearchFilters_InvalidSortBy(t *testing.T) {
	f := &SearchFilters{SortBy: "alphabetical"}

	err := f.Validate()
	assert.Error(t, err)
}

func TestSearchFilters_InvalidPostedWithin(t *testing.T) {
	f := &SearchFilters{PostedWithin: "90d"}

	err := f.Validate()
	assert.Error(t, err)
}

func TestSearchFilters_PageSizeClamped(t *testing.T) {
	f := &SearchFilters{PageSize: 500}

	f.Normalize()
	assert.Equal(t, 100, f.PageSize)
}

func TestNewPaginationMetadata(t *testing.T) {
	meta := NewPaginationMetadata(1, 20, 45)
	assert.Equal(t, 3, meta.TotalPages)
	assert.True(t, meta.HasMore)

	last := NewPaginationMetadata(3, 20, 45)
	assert.False(t, last.HasMore)

	empty := NewPaginationMetadata(1, 20, 0)
	assert.Equal(t, 0, empty.TotalPages)
	assert.False(t, empty.HasMore)
}
