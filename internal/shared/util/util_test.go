package util

import "testing"

func TestSanitizeFileName(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"resume.pdf", "resume.pdf", false},
		{" resume.pdf ", "resume.pdf", false},
		{"a/b.pdf", "a_b.pdf", false},
		{`a\b.pdf`, "a_b.pdf", false},
		{"../etc/passwd", "", true},
		{"   ", "", true},
	}
	for _, tc := range cases {
		got, err := SanitizeFileName(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("SanitizeFileName(%q): expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("SanitizeFileName(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("SanitizeFileName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestHashUserKeyStableAndDistinct(t *testing.T) {
	a := HashUserKey("user-a")
	if a != HashUserKey("user-a") {
		t.Fatal("hash not stable")
	}
	if a == HashUserKey("user-b") {
		t.Fatal("distinct users must not collide")
	}
	if len(a) != 64 {
		t.Fatalf("expected hex sha256 length 64, got %d", len(a))
	}
}
