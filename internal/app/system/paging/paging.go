// internal/app/system/paging/paging.go
package paging

import (
	"net/http"
	"strconv"

	"github.com/dalemusser/waffle/pantry/query"
)

// PageSize is the default number of records returned by list endpoints.
const PageSize = 100

// MaxPageSize caps the "limit" query parameter.
const MaxPageSize = 500

// Response headers describing the window.
const (
	HeaderTotal     = "X-Total-Count"
	HeaderNextStart = "X-Next-Start"
)

// ParseStart extracts the human-friendly "start" query parameter (1-based index).
// Returns 1 if not present or invalid.
func ParseStart(r *http.Request) int {
	return parsePositive(query.Get(r, "start"), 1)
}

// ParseLimit extracts the "limit" query parameter. Returns PageSize if not
// present or invalid, and never more than MaxPageSize.
func ParseLimit(r *http.Request) int {
	return min(parsePositive(query.Get(r, "limit"), PageSize), MaxPageSize)
}

func parsePositive(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return def
	}
	return n
}

// Range holds computed display range values for a window of a list.
type Range struct {
	Total     int // records before windowing
	Start     int // 1-based start index (0 if no results)
	End       int // 1-based end index (0 if no results)
	PrevStart int // start value for the previous window
	NextStart int // start value for the next window; 0 when this is the last
}

// Window returns the records [start, start+limit) of items (1-based) and the
// range shown. A start past the end yields an empty, non-nil window.
func Window[T any](items []T, start, limit int) ([]T, Range) {
	total := len(items)
	if start < 1 {
		start = 1
	}
	if limit < 1 {
		limit = PageSize
	}

	lo := min(start-1, total)
	hi := min(lo+limit, total)
	page := items[lo:hi]
	if page == nil {
		page = []T{}
	}

	rg := computeRange(start, len(page), limit)
	rg.Total = total
	if hi < total {
		rg.NextStart = hi + 1
	} else {
		rg.NextStart = 0
	}
	return page, rg
}

func computeRange(start, shown, pageSize int) Range {
	if shown == 0 {
		return Range{PrevStart: 1}
	}
	return Range{
		Start:     start,
		End:       start + shown - 1,
		PrevStart: max(start-pageSize, 1),
	}
}

// SetHeaders writes the total and, when more records follow, the next start
// index.
func SetHeaders(w http.ResponseWriter, rg Range) {
	w.Header().Set(HeaderTotal, strconv.Itoa(rg.Total))
	if rg.NextStart > 0 {
		w.Header().Set(HeaderNextStart, strconv.Itoa(rg.NextStart))
	}
}
