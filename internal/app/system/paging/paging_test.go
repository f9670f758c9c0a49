package paging

import (
	"net/http/httptest"
	"testing"
)

func TestParseStartAndLimit(t *testing.T) {
	tests := []struct {
		target    string
		wantStart int
		wantLimit int
	}{
		{"/issues", 1, PageSize},
		{"/issues?start=20&limit=10", 20, 10},
		{"/issues?start=0&limit=-3", 1, PageSize},
		{"/issues?start=abc&limit=xyz", 1, PageSize},
		{"/issues?limit=100000", 1, MaxPageSize},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			r := httptest.NewRequest("GET", tt.target, nil)
			if got := ParseStart(r); got != tt.wantStart {
				t.Errorf("ParseStart = %d, want %d", got, tt.wantStart)
			}
			if got := ParseLimit(r); got != tt.wantLimit {
				t.Errorf("ParseLimit = %d, want %d", got, tt.wantLimit)
			}
		})
	}
}

func TestWindow(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7}

	tests := []struct {
		name      string
		start     int
		limit     int
		wantItems []int
		wantRange Range
	}{
		{"first window", 1, 3, []int{1, 2, 3}, Range{Total: 7, Start: 1, End: 3, PrevStart: 1, NextStart: 4}},
		{"middle window", 4, 3, []int{4, 5, 6}, Range{Total: 7, Start: 4, End: 6, PrevStart: 1, NextStart: 7}},
		{"last window", 7, 3, []int{7}, Range{Total: 7, Start: 7, End: 7, PrevStart: 4, NextStart: 0}},
		{"everything", 1, 100, items, Range{Total: 7, Start: 1, End: 7, PrevStart: 1, NextStart: 0}},
		{"past the end", 20, 3, []int{}, Range{Total: 7, PrevStart: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, rg := Window(items, tt.start, tt.limit)
			if len(got) != len(tt.wantItems) {
				t.Fatalf("items = %v, want %v", got, tt.wantItems)
			}
			for i := range got {
				if got[i] != tt.wantItems[i] {
					t.Fatalf("items = %v, want %v", got, tt.wantItems)
				}
			}
			if rg != tt.wantRange {
				t.Errorf("range = %+v, want %+v", rg, tt.wantRange)
			}
		})
	}
}

func TestSetHeaders(t *testing.T) {
	rec := httptest.NewRecorder()
	SetHeaders(rec, Range{Total: 250, Start: 1, End: 100, NextStart: 101})
	if got := rec.Header().Get(HeaderTotal); got != "250" {
		t.Errorf("%s = %q", HeaderTotal, got)
	}
	if got := rec.Header().Get(HeaderNextStart); got != "101" {
		t.Errorf("%s = %q", HeaderNextStart, got)
	}

	rec = httptest.NewRecorder()
	SetHeaders(rec, Range{Total: 3, Start: 1, End: 3})
	if got := rec.Header().Get(HeaderNextStart); got != "" {
		t.Errorf("%s on last window = %q, want empty", HeaderNextStart, got)
	}
}
