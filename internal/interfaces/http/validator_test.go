package http

import (
	"testing"

	"github.com/webautomy/relay/internal/entities"
)

func TestValidPhone(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{in: "628111222333", want: true},
		{in: "+628111222333", want: true},
		{in: "123456", want: true},
		{in: "12345", want: false},
		{in: "", want: false},
		{in: "not-a-number", want: false},
		{in: "628 111 222", want: false},
		{in: "1234567890123456", want: false},
	}
	for _, tt := range tests {
		if got := ValidPhone(tt.in); got != tt.want {
			t.Fatalf("ValidPhone(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestValidSlug(t *testing.T) {
	for _, s := range []string{"alice", "alice_01", "a-b"} {
		if !ValidSlug(s) {
			t.Fatalf("expected %q to be a valid slug", s)
		}
	}
	for _, s := range []string{"", "has space", "семь", "a;drop"} {
		if ValidSlug(s) {
			t.Fatalf("expected %q to be rejected", s)
		}
	}
}

func TestNormalizeMediaKind(t *testing.T) {
	tests := []struct {
		in   string
		want entities.MediaKind
	}{
		{in: "image", want: entities.MediaImage},
		{in: "IMAGE", want: entities.MediaImage},
		{in: "document", want: entities.MediaDocument},
		{in: "video", want: entities.MediaVideo},
		{in: "", want: entities.MediaImage},
		{in: "sticker", want: entities.MediaImage},
	}
	for _, tt := range tests {
		if got := NormalizeMediaKind(tt.in); got != tt.want {
			t.Fatalf("NormalizeMediaKind(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSanitizeString(t *testing.T) {
	if got := SanitizeString("abc\x00def"); got != "abcdef" {
		t.Fatalf("null bytes not stripped: %q", got)
	}
	if got := SanitizeString("plain"); got != "plain" {
		t.Fatalf("clean string mangled: %q", got)
	}
}
