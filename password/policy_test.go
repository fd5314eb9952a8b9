package password

import "testing"

func TestIsStrong(t *testing.T) {
	cases := []struct {
		name     string
		password string
		want     bool
	}{
		{"empty", "", false},
		{"lowercase and digits only", "abc12345", false},
		{"all classes", "Abcdef1!", true},
		{"too short with all classes", "Ab1!", false},
		{"missing digit", "Abcdefg!", false},
		{"missing symbol", "Abcdefg1", false},
		{"missing uppercase", "abcdefg1!", false},
		{"missing lowercase", "ABCDEFG1!", false},
		{"symbol outside the accepted set", "Abcdefg1?", false},
		{"long with all classes", "Str0ng&LongPassword!", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsStrong(tc.password); got != tc.want {
				t.Fatalf("IsStrong(%q) = %v, want %v", tc.password, got, tc.want)
			}
		})
	}
}
