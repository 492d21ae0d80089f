package core

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword_FreshSaltPerCall(t *testing.T) {
	t.Parallel()

	h1, err := HashPassword("longenough1", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	h2, err := HashPassword("longenough1", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if h1 == h2 {
		t.Fatalf("expected distinct digests for repeated hashing, got identical")
	}
	if !CheckPassword(h1, "longenough1") || !CheckPassword(h2, "longenough1") {
		t.Fatalf("expected both digests to verify the original password")
	}
}

func TestCheckPassword_WrongPassword(t *testing.T) {
	t.Parallel()

	h, err := HashPassword("correct horse", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if CheckPassword(h, "battery staple") {
		t.Fatalf("expected mismatching password to fail verification")
	}
}

func TestCheckPassword_MalformedDigest(t *testing.T) {
	t.Parallel()

	if CheckPassword("not-a-bcrypt-digest", "anything") {
		t.Fatalf("expected malformed digest to fail verification, not error out")
	}
	if CheckPassword("", "anything") {
		t.Fatalf("expected empty digest to fail verification")
	}
}
