package slug

import "testing"

func TestMake(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"Arsenal", "arsenal"},
		{"  Real Madrid CF ", "real-madrid-cf"},
		{"Borussia M'gladbach", "borussia-m-gladbach"},
		{"1. FC Köln", "1-fc-k-ln"},
		{"---", ""},
	}
	for _, tc := range cases {
		if got := Make(tc.in); got != tc.want {
			t.Fatalf("Make(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestWithID(t *testing.T) {
	t.Parallel()

	if got := WithID("Arsenal", 133604); got != "arsenal-133604" {
		t.Fatalf("unexpected slug: %q", got)
	}
	// Same name, different upstream id never collides.
	a := WithID("Rangers", 133138)
	b := WithID("Rangers", 140079)
	if a == b {
		t.Fatalf("expected distinct slugs, got %q twice", a)
	}
	if got := WithID("", 42); got != "42" {
		t.Fatalf("unexpected slug for empty name: %q", got)
	}
}
