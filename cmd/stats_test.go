package cmd

import "testing"

func TestTruncate(t *testing.T) {
	cases := []struct {
		in   string
		max  int
		want string
	}{
		{"Count the Dinos", 28, "Count the Dinos"},
		{"Count the Dinos", 5, "Count"},
		{"Dino 🦕 Parade", 7, "Dino 🦕 "},
		{"Étoiles et planètes", 7, "Étoiles"},
		{"", 4, ""},
	}
	for _, tc := range cases {
		if got := truncate(tc.in, tc.max); got != tc.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tc.in, tc.max, got, tc.want)
		}
	}
}
