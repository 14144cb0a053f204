package repository

import "testing"

func TestPageRequestNormalized(t *testing.T) {
	cases := []struct {
		in   PageRequest
		want PageRequest
	}{
		{PageRequest{}, PageRequest{Page: DefaultPage, PageSize: DefaultPageSize}},
		{PageRequest{Page: -3, PageSize: 5}, PageRequest{Page: 1, PageSize: 5}},
		{PageRequest{Page: 4, PageSize: MaxPageSize + 1}, PageRequest{Page: 4, PageSize: MaxPageSize}},
	}
	for _, tc := range cases {
		if got := tc.in.Normalized(); got != tc.want {
			t.Fatalf("Normalized(%+v) = %+v, want %+v", tc.in, got, tc.want)
		}
	}
	if off := (PageRequest{Page: 3, PageSize: 10}).Offset(); off != 20 {
		t.Fatalf("expected offset 20, got %d", off)
	}
}
