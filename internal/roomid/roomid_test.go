package roomid_test

import (
	"testing"

	"debate_arena/internal/roomid"
)

func TestGenerateLengthAndAlphabet(t *testing.T) {
	for i := 0; i < 1000; i++ {
		code := roomid.Generate()
		if len(code) != roomid.Length {
			t.Fatalf("unexpected code length: got %d want %d (%q)", len(code), roomid.Length, code)
		}
		for _, c := range code {
			if !((c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')) {
				t.Fatalf("character %q outside [A-Z0-9] in code %q", c, code)
			}
		}
	}
}

func TestValid(t *testing.T) {
	cases := []struct {
		code string
		want bool
	}{
		{"AB12CD", true},
		{"ZZZZZZ", true},
		{"000000", true},
		{"ab12cd", false},
		{"AB12C", false},
		{"AB12CDE", false},
		{"AB 2CD", false},
		{"AB12C-", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := roomid.Valid(tc.code); got != tc.want {
			t.Fatalf("Valid(%q) = %v, want %v", tc.code, got, tc.want)
		}
	}
}
