package pagecache

// Pager tracks the current page and page size for a list view and turns
// them into the limit/offset pair the cache is keyed by.
type Pager struct {
	limit int
	page  int
}

func NewPager(limit int) *Pager {
	if limit <= 0 {
		limit = 10
	}
	return &Pager{limit: limit, page: 1}
}

func (p *Pager) Limit() int { return p.limit }
func (p *Pager) Page() int  { return p.page }

// Offset is zero-based: page 1 starts at row 0.
func (p *Pager) Offset() int { return (p.page - 1) * p.limit }

// SetLimit changes the page size and resets to the first page, since the
// old page number has no meaning under a new size.
func (p *Pager) SetLimit(limit int) {
	if limit <= 0 {
		return
	}
	p.limit = limit
	p.page = 1
}

func (p *Pager) Next() { p.page++ }

// Prev moves back one page, never below the first.
func (p *Pager) Prev() {
	if p.page > 1 {
		p.page--
	}
}

func (p *Pager) Reset() { p.page = 1 }
