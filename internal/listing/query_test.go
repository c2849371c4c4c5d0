package listing

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQueryNormalize(t *testing.T) {
	tests := []struct {
		name         string
		input        Query
		defaultLimit int
		expected     Query
	}{
		{
			name:         "given zero query should use first page and default limit",
			input:        Query{},
			defaultLimit: 10,
			expected:     Query{Page: 1, Limit: 10},
		},
		{
			name:         "given limit above max should clamp limit",
			input:        Query{Page: 3, Limit: 1000},
			defaultLimit: 10,
			expected:     Query{Page: 3, Limit: MaxLimit},
		},
		{
			name:         "given negative page and padded search should trim and reset page",
			input:        Query{Search: "  tote ", Page: -2, Limit: 5},
			defaultLimit: 10,
			expected:     Query{Search: "tote", Page: 1, Limit: 5},
		},
		{
			name:         "given non positive default limit should fallback to package default",
			input:        Query{},
			defaultLimit: 0,
			expected:     Query{Page: 1, Limit: DefaultLimit},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actual := tt.input.Normalize(tt.defaultLimit)
			assert.Equal(t, tt.expected, actual, "normalized query should be equal to expected")
		})
	}
}

func TestQueryOffset(t *testing.T) {
	assert.EqualValues(t, 0, Query{Page: 1, Limit: 10}.Offset())
	assert.EqualValues(t, 20, Query{Page: 3, Limit: 10}.Offset())
	assert.EqualValues(t, 0, Query{}.Offset())
}

func TestQueryFromValues(t *testing.T) {
	values := url.Values{}
	values.Set("search", "leather")
	values.Set("status", "pending")
	values.Set("page", "2")
	values.Set("limit", "abc")

	actual := QueryFromValues(values)
	assert.Equal(t, Query{Search: "leather", Status: "pending", Page: 2, Limit: 0}, actual)
	assert.Equal(t, "leather", actual.Values().Get("search"))
	assert.Equal(t, "", actual.Values().Get("limit"))
}

func TestNewPage(t *testing.T) {
	tests := []struct {
		name               string
		total              int64
		query              Query
		expectedTotalPages int
		expectedHasNext    bool
		expectedHasPrev    bool
	}{
		{
			name:               "given empty result should have zero pages",
			total:              0,
			query:              Query{Page: 1, Limit: 10},
			expectedTotalPages: 0,
		},
		{
			name:               "given partial last page should round pages up",
			total:              21,
			query:              Query{Page: 1, Limit: 10},
			expectedTotalPages: 3,
			expectedHasNext:    true,
		},
		{
			name:               "given last page should not have next",
			total:              20,
			query:              Query{Page: 2, Limit: 10},
			expectedTotalPages: 2,
			expectedHasPrev:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := NewPage[string](nil, tt.total, tt.query)
			assert.NotNil(t, page.Items, "items should never be nil")
			assert.Equal(t, tt.expectedTotalPages, page.TotalPages)
			assert.Equal(t, tt.expectedHasNext, page.HasNext())
			assert.Equal(t, tt.expectedHasPrev, page.HasPrev())
		})
	}
}

func TestMap(t *testing.T) {
	page := NewPage([]int{1, 2}, 12, Query{Page: 2, Limit: 2})
	actual := Map(page, func(i int) string { return string(rune('a' + i)) })
	assert.Equal(t, []string{"b", "c"}, actual.Items)
	assert.Equal(t, page.TotalPages, actual.TotalPages)
	assert.Equal(t, page.Page, actual.Page)
}
