package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func storedQuery() *Query {
	account := int64(900111)
	limit, offset := PageSize, 0
	return &Query{AccountNumber: &account, Limit: &limit, Offset: &offset}
}

func TestPager_OffsetNeverNegative(t *testing.T) {
	p := NewPager()
	p.Begin(storedQuery())
	p.Record(PageSize)

	q := p.Next()
	assert.EqualValues(t, PageSize, *q.Offset)

	q = p.Prev()
	assert.EqualValues(t, 0, *q.Offset)

	// repeated previous at the first page stays at 0
	q = p.Prev()
	assert.EqualValues(t, 0, *q.Offset)
	q = p.Prev()
	assert.EqualValues(t, 0, *q.Offset)
}

func TestPager_HasNextBoundary(t *testing.T) {
	t.Run("short page disables next", func(t *testing.T) {
		p := NewPager()
		p.Begin(storedQuery())
		p.Record(PageSize - 1)
		assert.False(t, p.HasNext())
	})

	t.Run("full page enables next", func(t *testing.T) {
		p := NewPager()
		p.Begin(storedQuery())
		p.Record(PageSize)
		assert.True(t, p.HasNext())
	})

	t.Run("grouped response never enables next", func(t *testing.T) {
		p := NewPager()
		p.Begin(storedQuery())
		p.Record(-1)
		assert.False(t, p.HasNext())
	})
}

func TestPager_ReusesStoredParams(t *testing.T) {
	p := NewPager()
	base := storedQuery()
	p.Begin(base)
	p.Record(PageSize)

	q := p.Next()
	assert.Equal(t, base.AccountNumber, q.AccountNumber)
	assert.Equal(t, base.Limit, q.Limit)
	assert.EqualValues(t, PageSize, *q.Offset)
	// the stored baseline keeps its own offset untouched
	assert.EqualValues(t, 0, *base.Offset)
}

func TestPager_NoQueryStored(t *testing.T) {
	p := NewPager()
	assert.Nil(t, p.Next())
	assert.Nil(t, p.Prev())
	assert.False(t, p.HasNext())
	assert.False(t, p.HasPrev())
}
