package handlers

import "testing"

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Silk Evening Gown", "silk-evening-gown"},
		{"  Café  Noir  ", "caf-noir"},
		{"UPPER case", "upper-case"},
		{"trailing!", "trailing"},
		{"a--b", "a-b"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := slugify(tt.in); got != tt.want {
			t.Errorf("slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
