package web

// Pager describes the window a listing page shows.
type Pager struct {
	Page  int
	Size  int
	Total int
	Pages []int
}

// Paginate slices a zero-based page window out of items. A negative page is
// treated as the first, a page past the end is pulled back so the last window
// is never empty while items exist, and a window larger than the whole list
// starts at zero.
func Paginate[T any](items []T, page, size int) ([]T, Pager) {
	if page < 0 {
		page = 0
	}
	n := len(items)
	lo := page * size
	hi := (page + 1) * size
	if lo > n {
		if size > n {
			lo = 0
		} else {
			lo = n - size
		}
	}
	if hi > n {
		hi = n
	}
	if lo > hi {
		lo = hi
	}

	total := 0
	if n > 0 {
		total = (n + size - 1) / size
	}
	pages := make([]int, total)
	for i := range pages {
		pages[i] = i
	}
	return items[lo:hi], Pager{Page: page, Size: size, Total: total - 1, Pages: pages}
}
