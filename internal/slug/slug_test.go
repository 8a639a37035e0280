//go:build unit

package slug

import "testing"

func TestGenerate(t *testing.T) {
	testCases := []struct {
		in   string
		want string
	}{
		{"Summer Sale! 2026", "summer-sale-2026"},
		{"  about us  ", "about-us"},
		{"Tom's -- Shoes", "toms-shoes"},
		{"---", ""},
		{"Crème Brûlée", "crme-brle"},
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			if got := Generate(tc.in); got != tc.want {
				t.Errorf("Generate(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestIsStoreName(t *testing.T) {
	valid := []string{"acme", "acme-shoes", "a1"}
	invalid := []string{"", "1acme", "Acme", "acme shoes", "-acme"}

	for _, s := range valid {
		if !IsStoreName(s) {
			t.Errorf("expected %q to be a valid store name", s)
		}
	}
	for _, s := range invalid {
		if IsStoreName(s) {
			t.Errorf("expected %q to be rejected", s)
		}
	}
}
