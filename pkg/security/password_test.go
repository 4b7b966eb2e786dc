package security

import (
	"strings"
	"testing"

	"github.com/SaraKachchaf/flowermarketneo4j/pkg/config"
)

func fastConfig() config.PasswordConfig {
	return config.PasswordConfig{
		ArgonMemoryKB:    8,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
}

func TestHashAndVerifyRoundTrip(t *testing.T) {
	t.Parallel()
	encoded, err := HashPassword("fleurs-du-mal", fastConfig())
	if err != nil {
		t.Fatalf("hashing: %v", err)
	}
	if !strings.HasPrefix(encoded, "$argon2id$v=19$") {
		t.Fatalf("unexpected hash format %q", encoded)
	}

	ok, err := VerifyPassword("fleurs-du-mal", encoded)
	if err != nil {
		t.Fatalf("verifying: %v", err)
	}
	if !ok {
		t.Fatal("expected matching password to verify")
	}
}

func TestVerifyRejectsWrongPassword(t *testing.T) {
	t.Parallel()
	encoded, err := HashPassword("fleurs-du-mal", fastConfig())
	if err != nil {
		t.Fatalf("hashing: %v", err)
	}

	ok, err := VerifyPassword("tulipes", encoded)
	if err != nil {
		t.Fatalf("verifying: %v", err)
	}
	if ok {
		t.Fatal("wrong password must not verify")
	}
}

func TestVerifyRejectsMalformedHash(t *testing.T) {
	t.Parallel()
	if _, err := VerifyPassword("whatever", "$bcrypt$nope"); err == nil {
		t.Fatal("expected error for malformed hash")
	}
}

func TestHashRejectsEmptyPassword(t *testing.T) {
	t.Parallel()
	if _, err := HashPassword("", fastConfig()); err == nil {
		t.Fatal("expected error for empty password")
	}
}

func TestGenerateVerificationCode(t *testing.T) {
	t.Parallel()
	for i := 0; i < 50; i++ {
		code, err := GenerateVerificationCode()
		if err != nil {
			t.Fatalf("generating code: %v", err)
		}
		if len(code) != 6 {
			t.Fatalf("expected 6 digits, got %q", code)
		}
		for _, r := range code {
			if r < '0' || r > '9' {
				t.Fatalf("non-digit in code %q", code)
			}
		}
		if code[0] == '0' {
			t.Fatalf("code %q would lose its leading digit in numeric contexts", code)
		}
	}
}
