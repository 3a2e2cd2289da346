package service

import "testing"

func TestGenerateCode_Length(t *testing.T) {
	// 20 digits exceeds the int64 range; the generator must stay in
	// arbitrary-precision arithmetic throughout.
	for _, length := range []int{ClientInviteCodeLength, PractitionerInviteCodeLength, 4, 20} {
		code := GenerateCode(length)
		if len(code) != length {
			t.Fatalf("expected %d digits, got %q", length, code)
		}
		for _, r := range code {
			if r < '0' || r > '9' {
				t.Fatalf("expected decimal digits only, got %q", code)
			}
		}
	}
}

func TestGenerateCode_DefaultsOnBadLength(t *testing.T) {
	if got := len(GenerateCode(0)); got != ClientInviteCodeLength {
		t.Fatalf("expected default length %d, got %d", ClientInviteCodeLength, got)
	}
}

func TestGenerateCode_Varies(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 50; i++ {
		seen[GenerateCode(PractitionerInviteCodeLength)] = struct{}{}
	}
	if len(seen) < 2 {
		t.Fatalf("expected varying codes, got %d distinct of 50", len(seen))
	}
}
