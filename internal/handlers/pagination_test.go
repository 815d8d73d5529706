package handlers

import "testing"

func TestParsePageParamsDefaults(t *testing.T) {
	page, pageSize, err := parsePageParams("", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page != 1 || pageSize != defaultPageSize {
		t.Fatalf("expected defaults 1/%d, got %d/%d", defaultPageSize, page, pageSize)
	}
}

func TestParsePageParamsRejectsInvalid(t *testing.T) {
	cases := [][2]string{
		{"0", "10"},
		{"-1", "10"},
		{"abc", "10"},
		{"1", "0"},
		{"1", "nope"},
	}
	for _, c := range cases {
		if _, _, err := parsePageParams(c[0], c[1]); err == nil {
			t.Fatalf("expected error for page=%q pageSize=%q", c[0], c[1])
		}
	}
}

func TestParsePageParamsCapsPageSize(t *testing.T) {
	_, pageSize, err := parsePageParams("1", "5000")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pageSize != maxPageSize {
		t.Fatalf("expected pageSize capped at %d, got %d", maxPageSize, pageSize)
	}
}

func TestComputePages(t *testing.T) {
	cases := []struct {
		total, pageSize, expected int64
	}{
		{0, 12, 0},
		{1, 12, 1},
		{12, 12, 1},
		{13, 12, 2},
		{24, 12, 2},
		{25, 12, 3},
	}
	for _, c := range cases {
		if got := computePages(c.total, c.pageSize); got != c.expected {
			t.Fatalf("computePages(%d, %d) = %d, expected %d", c.total, c.pageSize, got, c.expected)
		}
	}
}
