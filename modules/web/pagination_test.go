package web

import (
	"reflect"
	"testing"
)

func TestPaginate(t *testing.T) {
	items := []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}

	tests := []struct {
		name      string
		page      int
		size      int
		want      []int
		wantTotal int
	}{
		{"first page", 0, 4, []int{0, 1, 2, 3}, 2},
		{"middle page", 1, 4, []int{4, 5, 6, 7}, 2},
		{"last page is short", 2, 4, []int{8, 9}, 2},
		{"page past the end pulls back", 5, 4, []int{6, 7, 8, 9}, 2},
		{"window larger than the list", 1, 20, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, 0},
		{"exact split", 1, 5, []int{5, 6, 7, 8, 9}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, pager := Paginate(items, tt.page, tt.size)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("window = %v, want %v", got, tt.want)
			}
			if pager.Total != tt.wantTotal {
				t.Errorf("Total = %d, want %d", pager.Total, tt.wantTotal)
			}
			if len(pager.Pages) != tt.wantTotal+1 {
				t.Errorf("len(Pages) = %d, want %d", len(pager.Pages), tt.wantTotal+1)
			}
			if pager.Page != tt.page || pager.Size != tt.size {
				t.Errorf("pager echoes page=%d size=%d, want page=%d size=%d",
					pager.Page, pager.Size, tt.page, tt.size)
			}
		})
	}
}

func TestPaginateNegativePage(t *testing.T) {
	items := []int{0, 1, 2, 3, 4}

	for _, page := range []int{-1, -7} {
		got, pager := Paginate(items, page, 4)
		if !reflect.DeepEqual(got, []int{0, 1, 2, 3}) {
			t.Errorf("Paginate(page=%d) window = %v, want first page", page, got)
		}
		if pager.Page != 0 {
			t.Errorf("Paginate(page=%d) pager.Page = %d, want 0", page, pager.Page)
		}
	}
}

func TestPaginateEmpty(t *testing.T) {
	got, pager := Paginate([]int{}, 0, 4)
	if len(got) != 0 {
		t.Errorf("window = %v, want empty", got)
	}
	if pager.Total != -1 {
		t.Errorf("Total = %d, want -1", pager.Total)
	}
	if len(pager.Pages) != 0 {
		t.Errorf("Pages = %v, want none", pager.Pages)
	}
}
