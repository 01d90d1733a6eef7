package browse

import "quipvid/internal/domain"

// Pager tracks one section's current page. Pages are zero-based and always
// clamped to [0, TotalPages()-1].
type Pager struct {
	page     int
	pageSize int
	total    int
}

func NewPager(pageSize int) *Pager {
	return &Pager{pageSize: pageSize}
}

// SetTotal updates the number of items and re-clamps the current page, so
// shrinking the set (e.g. a narrower filter) never strands the pager past
// the end.
func (p *Pager) SetTotal(total int) {
	p.total = total
	p.clamp()
}

func (p *Pager) Page() int {
	return p.page
}

func (p *Pager) TotalPages() int {
	if p.total == 0 {
		return 0
	}
	return (p.total + p.pageSize - 1) / p.pageSize
}

func (p *Pager) Next() {
	p.page++
	p.clamp()
}

func (p *Pager) Prev() {
	p.page--
	p.clamp()
}

func (p *Pager) clamp() {
	if max := p.TotalPages() - 1; p.page > max {
		p.page = max
	}
	if p.page < 0 {
		p.page = 0
	}
}

// Slice returns the items of the current page.
func (p *Pager) Slice(items []domain.Video) []domain.Video {
	start := p.page * p.pageSize
	if start >= len(items) {
		return nil
	}
	end := start + p.pageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
