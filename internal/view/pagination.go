package view

// PageItem is one entry of a pagination bar: a page number or an ellipsis.
type PageItem struct {
	Page     int
	Ellipsis bool
	Current  bool
}

// PageItems builds the bar "1 … [current-1 current current+1] … total".
// Nothing is shown for a single page.
func PageItems(current, total int) []PageItem {
	if total <= 1 {
		return nil
	}
	if current < 1 {
		current = 1
	}
	if current > total {
		current = total
	}

	left := max(1, current-1)
	right := min(total, current+1)

	page := func(n int) PageItem { return PageItem{Page: n, Current: n == current} }

	items := []PageItem{page(1)}
	if left > 2 {
		items = append(items, PageItem{Ellipsis: true})
	}
	for n := max(2, left); n <= min(right, total-1); n++ {
		items = append(items, page(n))
	}
	if right < total-1 {
		items = append(items, PageItem{Ellipsis: true})
	}
	return append(items, page(total))
}
