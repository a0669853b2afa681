package pagination

import (
	"net/url"
	"testing"

	"github.com/MavuriAlekhya2005/docverify/pkg/query"
)

func testConfig() Config {
	return Config{DefaultPageSize: 20, MaxPageSize: 100}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		request  PageRequest
		page     int
		pageSize int
	}{
		{"zero values", PageRequest{}, 1, 20},
		{"negative page", PageRequest{Page: -3, PageSize: 10}, 1, 10},
		{"over max", PageRequest{Page: 2, PageSize: 500}, 2, 100},
		{"in range", PageRequest{Page: 4, PageSize: 50}, 4, 50},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.request.Normalize(testConfig())
			if tc.request.Page != tc.page || tc.request.PageSize != tc.pageSize {
				t.Errorf("expected page %d size %d, got %d %d",
					tc.page, tc.pageSize, tc.request.Page, tc.request.PageSize)
			}
		})
	}
}

func TestOffset(t *testing.T) {
	r := PageRequest{Page: 3, PageSize: 25}
	if got := r.Offset(); got != 50 {
		t.Errorf("expected offset 50, got %d", got)
	}
}

func TestPageRequestFromQuery(t *testing.T) {
	values, err := url.ParseQuery("page=2&page_size=10&search=gear&sort=-CreatedAt,Name")
	if err != nil {
		t.Fatalf("parse query: %v", err)
	}

	req := PageRequestFromQuery(values, testConfig())
	if req.Page != 2 || req.PageSize != 10 {
		t.Errorf("unexpected pagination: %+v", req)
	}
	if req.Search == nil || *req.Search != "gear" {
		t.Errorf("unexpected search: %v", req.Search)
	}

	expectedSort := []query.SortField{
		{Field: "CreatedAt", Descending: true},
		{Field: "Name"},
	}
	if len(req.Sort) != 2 || req.Sort[0] != expectedSort[0] || req.Sort[1] != expectedSort[1] {
		t.Errorf("unexpected sort: %v", req.Sort)
	}
}

func TestPageRequestFromQuery_Defaults(t *testing.T) {
	req := PageRequestFromQuery(url.Values{}, testConfig())
	if req.Page != 1 || req.PageSize != 20 {
		t.Errorf("unexpected defaults: %+v", req)
	}
	if req.Search != nil || req.Sort != nil {
		t.Errorf("expected empty search and sort: %+v", req)
	}
}

func TestNewPageResult(t *testing.T) {
	tests := []struct {
		name       string
		total      int
		pageSize   int
		totalPages int
	}{
		{"exact division", 100, 20, 5},
		{"remainder rounds up", 101, 20, 6},
		{"empty", 0, 20, 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := NewPageResult([]string{"a"}, tc.total, 1, tc.pageSize)
			if result.TotalPages != tc.totalPages {
				t.Errorf("expected %d total pages, got %d", tc.totalPages, result.TotalPages)
			}
		})
	}
}

func TestNewPageResult_NilData(t *testing.T) {
	result := NewPageResult[string](nil, 0, 1, 20)
	if result.Data == nil {
		t.Error("nil data must serialize as an empty slice")
	}
	if len(result.Data) != 0 {
		t.Errorf("expected empty data, got %v", result.Data)
	}
}
