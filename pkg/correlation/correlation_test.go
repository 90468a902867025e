package correlation

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestMintParseRoundTrip(t *testing.T) {
	codec, err := NewCodec("test-secret")
	if err != nil {
		t.Fatalf("NewCodec failed: %v", err)
	}

	id := uuid.New()
	token := codec.Mint(id)
	if !strings.HasPrefix(token, "sv1.") {
		t.Fatalf("unexpected token shape %q", token)
	}

	parsed, err := codec.Parse(token)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if parsed != id {
		t.Fatalf("expected %s, got %s", id, parsed)
	}
}

func TestParseRejectsTampering(t *testing.T) {
	codec, err := NewCodec("test-secret")
	if err != nil {
		t.Fatalf("NewCodec failed: %v", err)
	}
	token := codec.Mint(uuid.New())

	other := codec.Mint(uuid.New())
	parts := strings.Split(token, ".")
	otherParts := strings.Split(other, ".")
	spliced := strings.Join([]string{parts[0], otherParts[1], parts[2]}, ".")

	if _, err := codec.Parse(spliced); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for spliced payload, got %v", err)
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	minter, _ := NewCodec("secret-a")
	parser, _ := NewCodec("secret-b")

	if _, err := parser.Parse(minter.Mint(uuid.New())); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken across secrets, got %v", err)
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	codec, _ := NewCodec("test-secret")

	cases := []string{
		"",
		"inv-12345",
		"sv1.not-base64!!.alsobad",
		"sv1.QQ.QQ",
		"sv2." + strings.Repeat("A", 22) + "." + strings.Repeat("A", 22),
		uuid.New().String(),
	}
	for _, raw := range cases {
		if _, err := codec.Parse(raw); err != ErrInvalidToken {
			t.Fatalf("expected ErrInvalidToken for %q, got %v", raw, err)
		}
	}
}

func TestNewCodecRequiresSecret(t *testing.T) {
	if _, err := NewCodec("  "); err == nil {
		t.Fatal("expected error for blank secret")
	}
}
