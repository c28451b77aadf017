package util

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSanitizeFileName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "hoja de vida.pdf", want: "hoja de vida.pdf"},
		{in: "Hoja_de_vida_Ana_Pérez.pdf", want: "Hoja_de_vida_Ana_Pérez.pdf"},
		{in: " dir/sub\\hv.pdf ", want: "dir_sub_hv.pdf"},
		{in: "hv\"\r\n.pdf", want: "hv.pdf"},
		{in: "../etc/passwd", wantErr: true},
		{in: "   ", wantErr: true},
		{in: "\x00\x01", wantErr: true},
	}
	for _, tt := range tests {
		got, err := SanitizeFileName(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidFileName) {
				t.Fatalf("expected ErrInvalidFileName for %q, got %v", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Fatalf("SanitizeFileName(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
	}
}

func TestSanitizeFileNameTruncates(t *testing.T) {
	got, err := SanitizeFileName(strings.Repeat("á", 200) + ".pdf")
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if n := utf8.RuneCountInString(got); n != 128 {
		t.Fatalf("expected 128 runes, got %d", n)
	}
}
