package phone

import "testing"

func TestNormalizeE164(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"national format", "55 1234 5678", "+525512345678"},
		{"already e164", "+525512345678", "+525512345678"},
		{"foreign number", "+14155552671", "+14155552671"},
		{"garbage passes through", "not-a-phone", "not-a-phone"},
		{"empty", "", ""},
		{"whitespace only", "   ", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NormalizeE164(tc.input); got != tc.want {
				t.Fatalf("NormalizeE164(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}
