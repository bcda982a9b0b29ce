package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name        string
		page, limit int
		want        Params
	}{
		{"defaults", 0, 0, Params{Page: 1, Limit: DefaultLimit}},
		{"negative", -3, -1, Params{Page: 1, Limit: DefaultLimit}},
		{"clamped limit", 2, 1000, Params{Page: 2, Limit: MaxLimit}},
		{"in range", 3, 10, Params{Page: 3, Limit: 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, New(tt.page, tt.limit))
		})
	}
}

func TestMetaFor(t *testing.T) {
	p := New(2, 10)
	assert.Equal(t, 10, p.Offset())

	meta := p.MetaFor(25)
	assert.Equal(t, 3, meta.TotalPages)
	assert.True(t, meta.HasNext)
	assert.True(t, meta.HasPrev)

	meta = New(1, 10).MetaFor(0)
	assert.Equal(t, 0, meta.TotalPages)
	assert.False(t, meta.HasNext)
	assert.False(t, meta.HasPrev)
}

func TestNewPageNeverNil(t *testing.T) {
	page := NewPage[int](nil, New(1, 10), 0)
	assert.NotNil(t, page.Results)
	assert.Empty(t, page.Results)
}
