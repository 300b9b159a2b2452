// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pagination

// # Stateful Controllers
//
// Paged and Incremental remember the visitor's position between requests.
// Neither is safe for concurrent use; the owning session serializes access.

// Page is one window of a paged list.
type Page[T any] struct {
	Items []T  `json:"items"`
	Meta  Meta `json:"meta"`
	// Reset is true when the requested page no longer existed and page 1 was served instead.
	Reset bool `json:"reset"`
}

// Slice returns the window [(page-1)*size, page*size) of items.
//
// A page past the end falls back to page 1 and reports reset=true. Page numbers
// below 1 are treated as 1. The returned items are a copy.
func Slice[T any](items []T, page, size int) (window []T, meta Meta, reset bool) {
	if size < 1 {
		size = DefaultLimit
	}
	if page < 1 {
		page = DefaultPage
	}

	meta = NewMeta(page, size, len(items))
	if page > 1 && page > meta.TotalPages {
		page = DefaultPage
		meta.Page = page
		reset = true
	}

	start := (page - 1) * size
	end := min(start+size, len(items))
	if start > end {
		start = end
	}

	window = make([]T, end-start)
	copy(window, items[start:end])
	return window, meta, reset
}

// Paged tracks a 1-based page over fixed-size windows.
type Paged[T any] struct {
	size int
	page int
}

// NewPaged returns a controller positioned on page 1.
func NewPaged[T any](size int) *Paged[T] {
	if size < 1 {
		size = DefaultLimit
	}
	return &Paged[T]{size: size, page: DefaultPage}
}

// Size returns the page size.
func (p *Paged[T]) Size() int { return p.size }

// Current returns the current page number.
func (p *Paged[T]) Current() int { return p.page }

// GoTo moves to page n; values below 1 select page 1.
func (p *Paged[T]) GoTo(n int) {
	if n < DefaultPage {
		n = DefaultPage
	}
	p.page = n
}

// Next advances one page. Apply resets it if it overshoots.
func (p *Paged[T]) Next() { p.page++ }

// Prev goes back one page, stopping at page 1.
func (p *Paged[T]) Prev() { p.GoTo(p.page - 1) }

// Reset returns to page 1.
func (p *Paged[T]) Reset() { p.page = DefaultPage }

// Apply slices items at the current page, resetting to page 1 when out of range.
func (p *Paged[T]) Apply(items []T) Page[T] {
	window, meta, reset := Slice(items, p.page, p.size)
	p.page = meta.Page
	return Page[T]{Items: window, Meta: meta, Reset: reset}
}

// Window is the visible prefix of an incrementally loaded list.
type Window[T any] struct {
	Items   []T  `json:"items"`
	Visible int  `json:"visible"`
	Total   int  `json:"total"`
	HasMore bool `json:"has_more"`
}

// Incremental grows a visible prefix by a fixed step ("load more").
type Incremental[T any] struct {
	step    int
	visible int
}

// NewIncremental returns a controller showing one step of items.
func NewIncremental[T any](step int) *Incremental[T] {
	if step < 1 {
		step = DefaultLimit
	}
	return &Incremental[T]{step: step, visible: step}
}

// LoadMore grows the window by one step.
func (inc *Incremental[T]) LoadMore() { inc.visible += inc.step }

// Reset shrinks the window back to one step, used when the upstream list changes.
func (inc *Incremental[T]) Reset() { inc.visible = inc.step }

// Apply returns the visible prefix of items.
func (inc *Incremental[T]) Apply(items []T) Window[T] {
	end := min(inc.visible, len(items))
	visible := make([]T, end)
	copy(visible, items[:end])

	return Window[T]{
		Items:   visible,
		Visible: end,
		Total:   len(items),
		HasMore: end < len(items),
	}
}
