package util

import "testing"

func TestFingerprint(t *testing.T) {
	got := Fingerprint([]byte("FPC.json"), []byte(`{"contenido":[]}`))
	if got != Fingerprint([]byte("FPC.json"), []byte(`{"contenido":[]}`)) {
		t.Fatalf("expected stable hash, got %s", got)
	}
	for _, ch := range got {
		if !((ch >= 'a' && ch <= 'f') || (ch >= '0' && ch <= '9')) {
			t.Fatalf("hash contains non-hex character: %c", ch)
		}
	}
	if len(got) != 64 {
		t.Fatalf("expected 64 hex characters, got %d", len(got))
	}
	if Fingerprint([]byte("ab"), []byte("c")) == Fingerprint([]byte("a"), []byte("bc")) {
		t.Fatalf("expected part boundaries to affect the hash")
	}
	if short := ShortFingerprint([]byte("x")); len(short) != 12 || short != Fingerprint([]byte("x"))[:12] {
		t.Fatalf("unexpected short fingerprint %q", short)
	}
}
