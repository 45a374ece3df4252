package listview

import (
	"fmt"
	"testing"
)

type record struct {
	Name        string
	Description string
}

func fields(r record) []string { return []string{r.Name, r.Description} }

func TestFilterNoMatchYieldsEmpty(t *testing.T) {
	items := []record{{"Nasi Goreng", "fried rice"}, {"Es Teh", "iced tea"}}
	got := Filter(items, "rendang", fields)
	if len(got) != 0 {
		t.Fatalf("got %d items, want 0", len(got))
	}
}

func TestFilterSingleMatchOnName(t *testing.T) {
	items := []record{{"Nasi Goreng", "fried rice"}, {"Es Teh", "iced tea"}, {"Sayur Asem", "sour soup"}}
	got := Filter(items, "goreng", fields)
	if len(got) != 1 || got[0].Name != "Nasi Goreng" {
		t.Fatalf("got %v, want exactly Nasi Goreng", got)
	}
}

func TestFilterIsCaseInsensitiveAndTrimmed(t *testing.T) {
	items := []record{{"Es Teh", "iced tea"}}
	if got := Filter(items, "  ES TEH ", fields); len(got) != 1 {
		t.Fatalf("got %d items, want 1", len(got))
	}
}

func TestFilterBlankQueryKeepsAll(t *testing.T) {
	items := []record{{"a", ""}, {"b", ""}}
	if got := Filter(items, "   ", fields); len(got) != len(items) {
		t.Fatalf("got %d items, want %d", len(got), len(items))
	}
}

func TestPaginatePageCountIsCeil(t *testing.T) {
	cases := []struct {
		n, size, pages int
	}{
		{0, 9, 0},
		{1, 9, 1},
		{9, 9, 1},
		{10, 9, 2},
		{27, 9, 3},
		{28, 9, 4},
		{10, 10, 1},
	}
	for _, tc := range cases {
		items := make([]int, tc.n)
		got := Paginate(items, 1, tc.size)
		if got.TotalPages != tc.pages {
			t.Errorf("n=%d size=%d: pages = %d, want %d", tc.n, tc.size, got.TotalPages, tc.pages)
		}
	}
}

func TestPaginatePageContents(t *testing.T) {
	// Page K of the filtered collection must hold items [(K-1)*P, min(K*P, N)).
	var items []string
	for i := 0; i < 23; i++ {
		items = append(items, fmt.Sprintf("item-%02d", i))
	}
	const size = 9

	page2 := Paginate(items, 2, size)
	if len(page2.Items) != 9 || page2.Items[0] != "item-09" || page2.Items[8] != "item-17" {
		t.Fatalf("page 2 = %v", page2.Items)
	}
	page3 := Paginate(items, 3, size)
	if len(page3.Items) != 5 || page3.Items[0] != "item-18" || page3.Items[4] != "item-22" {
		t.Fatalf("page 3 = %v", page3.Items)
	}
	if page3.TotalItems != 23 || page3.TotalPages != 3 {
		t.Fatalf("totals = %d items %d pages", page3.TotalItems, page3.TotalPages)
	}
}

func TestPaginateOperatesOnFilteredCollection(t *testing.T) {
	records := []record{
		{"Nasi Goreng", ""}, {"Nasi Uduk", ""}, {"Nasi Kuning", ""},
		{"Es Teh", ""}, {"Es Jeruk", ""},
	}
	filtered := Filter(records, "nasi", fields)
	page := Paginate(filtered, 1, 2)
	if page.TotalItems != 3 || page.TotalPages != 2 || len(page.Items) != 2 {
		t.Fatalf("got %d total, %d pages, %d on page", page.TotalItems, page.TotalPages, len(page.Items))
	}
}

func TestPaginatePastEndIsEmpty(t *testing.T) {
	page := Paginate([]int{1, 2, 3}, 5, 9)
	if len(page.Items) != 0 {
		t.Fatalf("got %d items, want 0", len(page.Items))
	}
}
