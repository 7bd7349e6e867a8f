package password

import "testing"

func TestHashAndVerify(t *testing.T) {
	h := NewHasher(4)

	hash, err := h.Hash("s3cret-password")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if hash == "s3cret-password" {
		t.Fatal("hash equals plaintext")
	}

	ok, err := h.Verify("s3cret-password", hash)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !ok {
		t.Fatal("correct password rejected")
	}
}

func TestVerifyMismatchIsNotAnError(t *testing.T) {
	h := NewHasher(4)

	hash, err := h.Hash("right")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}

	ok, err := h.Verify("wrong", hash)
	if err != nil {
		t.Fatalf("mismatch should not error: %v", err)
	}
	if ok {
		t.Fatal("wrong password accepted")
	}
}

func TestVerifyGarbageHash(t *testing.T) {
	h := NewHasher(4)

	ok, err := h.Verify("anything", "not-a-bcrypt-hash")
	if err == nil {
		t.Fatal("expected error for malformed hash")
	}
	if ok {
		t.Fatal("garbage hash accepted")
	}
}

func TestOutOfRangeCostFallsBack(t *testing.T) {
	h := NewHasher(99)

	hash, err := h.Hash("pw")
	if err != nil {
		t.Fatalf("Hash with fallback cost: %v", err)
	}
	if ok, err := h.Verify("pw", hash); err != nil || !ok {
		t.Fatalf("roundtrip failed: ok=%v err=%v", ok, err)
	}
}
