package pagination

import "testing"

func TestClampPageSize(t *testing.T) {
	cfg := PageSizeConfig{Default: 10, Max: 50}
	tests := []struct {
		in   int32
		want int
	}{
		{in: 0, want: 10},
		{in: -3, want: 10},
		{in: 7, want: 7},
		{in: 500, want: 50},
	}
	for _, tc := range tests {
		if got := ClampPageSize(tc.in, cfg); got != tc.want {
			t.Fatalf("ClampPageSize(%d) = %d, want %d", tc.in, got, tc.want)
		}
	}
	if got := ClampPageSize(0, PageSizeConfig{}); got != 1 {
		t.Fatalf("ClampPageSize with zero config = %d, want 1", got)
	}
}

func TestSeqTokenRoundTrip(t *testing.T) {
	token := EncodeSeqToken(42)
	got, err := DecodeSeqToken(token)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != 42 {
		t.Fatalf("seq = %d, want 42", got)
	}
}

func TestDecodeSeqTokenEmpty(t *testing.T) {
	got, err := DecodeSeqToken("  ")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != 0 {
		t.Fatalf("seq = %d, want 0", got)
	}
}

func TestDecodeSeqTokenRejectsGarbage(t *testing.T) {
	for _, token := range []string{"%%%", "bm90LWEtc2Vx", EncodeSeqToken(-1)} {
		if _, err := DecodeSeqToken(token); err == nil {
			t.Fatalf("expected error for token %q", token)
		}
	}
}
