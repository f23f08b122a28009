package hashing

import "testing"

func TestHashAndVerify_RoundTrip(t *testing.T) {
	t.Parallel()

	h := NewBcryptHasher()

	hash, err := h.Hash("pw1")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	if hash == "pw1" {
		t.Fatalf("hash must not equal the plaintext secret")
	}
	if !h.Verify("pw1", hash) {
		t.Fatalf("Verify must succeed for the original secret")
	}
	if h.Verify("pw2", hash) {
		t.Fatalf("Verify must fail for a different secret")
	}
}

func TestHash_SaltedPerCall(t *testing.T) {
	t.Parallel()

	h := NewBcryptHasher()

	h1, err := h.Hash("same-secret")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	h2, err := h.Hash("same-secret")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	if h1 == h2 {
		t.Fatalf("two hashes of the same secret must differ (per-call salt)")
	}
	if !h.Verify("same-secret", h1) || !h.Verify("same-secret", h2) {
		t.Fatalf("both hashes must verify against the original secret")
	}
}

func TestVerify_MalformedHash(t *testing.T) {
	t.Parallel()

	h := NewBcryptHasher()

	if h.Verify("pw", "not-a-bcrypt-hash") {
		t.Fatalf("malformed stored hash must be a mismatch, not a success")
	}
	if h.Verify("pw", "") {
		t.Fatalf("empty stored hash must be a mismatch")
	}
}

func TestHasher_ZeroValueUsesDefaultCost(t *testing.T) {
	t.Parallel()

	var h BcryptHasher

	hash, err := h.Hash("pw")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	if !h.Verify("pw", hash) {
		t.Fatalf("Verify must succeed for the original secret")
	}
}
