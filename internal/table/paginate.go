package table

import "fraudview/internal/model"

// Paginate slices rows into the page nearest to requestedPage.
// requestedPage may be stale or out of range; the returned CurrentPage is the
// clamped value callers should keep.
func Paginate(rows []model.Row, pageSize, requestedPage int) model.Page {
	size := NormalizePageSize(pageSize)
	n := len(rows)

	totalPages := (n + size - 1) / size
	if totalPages < 1 {
		totalPages = 1
	}
	current := clamp(requestedPage, 1, totalPages)

	start := (current - 1) * size
	end := start + size
	if start > n {
		start = n
	}
	if end > n {
		end = n
	}

	return model.Page{
		Rows:        rows[start:end:end],
		CurrentPage: current,
		TotalPages:  totalPages,
		PageSize:    size,
		Start:       start,
		End:         end,
		TotalRows:   n,
	}
}

// NormalizePageSize maps any integer onto the enumerated page sizes.
// Non-positive values fall back to the default; others snap to the nearest
// allowed size, preferring the smaller on a tie.
func NormalizePageSize(size int) int {
	if size <= 0 {
		return model.DefaultPageSize
	}
	best := model.PageSizes[0]
	bestDiff := abs(size - best)
	for _, s := range model.PageSizes[1:] {
		if d := abs(size - s); d < bestDiff {
			best, bestDiff = s, d
		}
	}
	return best
}

// StepPageSize moves delta positions through the enumerated sizes, stopping at
// either end.
func StepPageSize(current, delta int) int {
	idx := 0
	size := NormalizePageSize(current)
	for i, s := range model.PageSizes {
		if s == size {
			idx = i
			break
		}
	}
	idx = clamp(idx+delta, 0, len(model.PageSizes)-1)
	return model.PageSizes[idx]
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
