package search

// PageSize is the fixed page length used throughout the system.
const PageSize = 10

// Pager owns the offset/limit state for one results view. It is reset to
// offset 0 on every fresh search and mutated only by explicit Next/Prev.
type Pager struct {
	Limit  int
	Offset int

	lastQuery *Query
	// lastFlatCount is the record count of the most recent flat page, or -1
	// when the last response was grouped (the fewer-than-limit heuristic
	// cannot be applied to grouped responses).
	lastFlatCount int
}

func NewPager() *Pager {
	return &Pager{Limit: PageSize, lastFlatCount: -1}
}

// Begin stores a fresh query (offset already 0) as the paging baseline.
func (p *Pager) Begin(q *Query) {
	p.Offset = 0
	p.lastQuery = q
	p.lastFlatCount = -1
}

// Reset forgets the stored query, e.g. when the search mode switches.
func (p *Pager) Reset() {
	p.Offset = 0
	p.lastQuery = nil
	p.lastFlatCount = -1
}

// Record notes how the most recent page came back so HasNext can decide.
// flatCount must be -1 for grouped responses.
func (p *Pager) Record(flatCount int) {
	p.lastFlatCount = flatCount
}

// HasNext reports whether a further page may exist: only when the last flat
// page was full. Grouped responses never enable next.
func (p *Pager) HasNext() bool {
	return p.lastQuery != nil && p.lastFlatCount == p.Limit
}

func (p *Pager) HasPrev() bool {
	return p.lastQuery != nil && p.Offset > 0
}

// Next returns the stored query re-addressed to the following page.
// Returns nil when no query has been stored yet.
func (p *Pager) Next() *Query {
	if p.lastQuery == nil {
		return nil
	}
	p.Offset += p.Limit
	return p.withOffset()
}

// Prev steps back one page, flooring the offset at 0 so repeated "previous"
// at the first page is idempotent.
func (p *Pager) Prev() *Query {
	if p.lastQuery == nil {
		return nil
	}
	p.Offset -= p.Limit
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p.withOffset()
}

// withOffset re-issues the stored parameters verbatim with only the offset
// mutated.
func (p *Pager) withOffset() *Query {
	q := *p.lastQuery
	offset := p.Offset
	q.Offset = &offset
	return &q
}
