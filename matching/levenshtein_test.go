package matching

import "testing"

func TestDistance(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"kitten", "sitting", 3},
		{"TLVK", "tlvk", 0},
		{"Mägi", "Magi", 1},
		{"Tallinna Laskeklubi", "Tallinna Laskuklubi", 1},
		{"flaw", "lawn", 2},
	}
	for _, tc := range cases {
		if got := Distance(tc.a, tc.b); got != tc.want {
			t.Errorf("Distance(%q, %q) = %d, want %d", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestDistanceSymmetryAndIdentity(t *testing.T) {
	inputs := []string{"", "a", "Pärnu", "Vibuklubi Sagittarius", "U21", "+50", "õäöü"}
	for _, a := range inputs {
		if d := Distance(a, a); d != 0 {
			t.Errorf("Distance(%q, %q) = %d, want 0", a, a, d)
		}
		for _, b := range inputs {
			if Distance(a, b) != Distance(b, a) {
				t.Errorf("Distance not symmetric for %q / %q", a, b)
			}
		}
	}
}
