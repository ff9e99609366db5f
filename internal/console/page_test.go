package console

import "testing"

func TestWindow(t *testing.T) {
	cases := []struct {
		page, size    int
		offset, limit int
	}{
		{1, 10, 0, 10},
		{2, 10, 10, 10},
		{3, 10, 20, 10},
		{1, 25, 0, 25},
		{0, 10, 0, 10}, // below range treated as page 1
		{-5, 10, 0, 10},
	}
	for _, c := range cases {
		offset, limit := Window(c.page, c.size)
		if offset != c.offset || limit != c.limit {
			t.Fatalf("Window(%d,%d) = (%d,%d), want (%d,%d)", c.page, c.size, offset, limit, c.offset, c.limit)
		}
	}
}

func TestTotalPages(t *testing.T) {
	cases := map[[2]int]int{
		{0, 10}:  1,
		{1, 10}:  1,
		{10, 10}: 1,
		{11, 10}: 2,
		{23, 10}: 3,
		{30, 10}: 3,
	}
	for in, want := range cases {
		if got := TotalPages(in[0], in[1]); got != want {
			t.Fatalf("TotalPages(%d,%d) = %d, want %d", in[0], in[1], got, want)
		}
	}
}

func TestClampPage(t *testing.T) {
	if got := ClampPage(5, 23, 10); got != 3 {
		t.Fatalf("expected clamp to last page 3, got %d", got)
	}
	if got := ClampPage(0, 23, 10); got != 1 {
		t.Fatalf("expected clamp to first page, got %d", got)
	}
	if got := ClampPage(2, 23, 10); got != 2 {
		t.Fatalf("expected in-range page untouched, got %d", got)
	}
	if got := ClampPage(1, 0, 10); got != 1 {
		t.Fatalf("empty collection should still clamp to page 1, got %d", got)
	}
}
