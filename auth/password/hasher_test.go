package password

import (
	"strings"
	"testing"

	"github.com/skillsenselab/identity/errors"
)

func TestHMACHasher_RoundTrip(t *testing.T) {
	h := NewHMACHasher("test-secret")

	plaintexts := []string{"password", "p", "", "correct horse battery staple", "päss wörd"}
	for _, p := range plaintexts {
		t.Run(p, func(t *testing.T) {
			digest, err := h.Hash(p)
			if err != nil {
				t.Fatalf("Hash: %v", err)
			}
			ok, err := h.Verify(digest, p)
			if err != nil {
				t.Fatalf("Verify: %v", err)
			}
			if !ok {
				t.Error("expected digest to verify against its own plaintext")
			}
		})
	}
}

func TestHMACHasher_Deterministic(t *testing.T) {
	h := NewHMACHasher("test-secret")
	a, _ := h.Hash("password")
	b, _ := h.Hash("password")
	// Fixed-key scheme: equal passwords produce equal digests.
	if a != b {
		t.Errorf("expected identical digests, got %s and %s", a, b)
	}
}

func TestHMACHasher_DistinctPlaintexts(t *testing.T) {
	h := NewHMACHasher("test-secret")
	a, _ := h.Hash("password1")
	b, _ := h.Hash("password2")
	if a == b {
		t.Error("distinct plaintexts must not collide")
	}
}

func TestHMACHasher_WrongPassword(t *testing.T) {
	h := NewHMACHasher("test-secret")
	digest, _ := h.Hash("password")
	ok, err := h.Verify(digest, "not-the-password")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if ok {
		t.Error("wrong password must not verify")
	}
}

func TestHMACHasher_KeyMatters(t *testing.T) {
	digest, _ := NewHMACHasher("key-a").Hash("password")
	ok, err := NewHMACHasher("key-b").Verify(digest, "password")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if ok {
		t.Error("digest produced under a different key must not verify")
	}
}

func TestHMACHasher_MalformedDigest(t *testing.T) {
	h := NewHMACHasher("test-secret")

	tests := []string{"zz-not-hex", "abc", "0x1234"}
	for _, digest := range tests {
		t.Run(digest, func(t *testing.T) {
			_, err := h.Verify(digest, "password")
			if err == nil {
				t.Fatal("expected a decode error, got verification result")
			}
			appErr, ok := errors.AsAppError(err)
			if !ok {
				t.Fatalf("expected AppError, got %T", err)
			}
			if appErr.Code != errors.ErrCodeHashDecode {
				t.Errorf("expected HASH_DECODE_ERROR, got %s", appErr.Code)
			}
		})
	}
}

func TestHMACHasher_DigestIsHex(t *testing.T) {
	h := NewHMACHasher("test-secret")
	digest, _ := h.Hash("password")
	if len(digest) != 64 {
		t.Errorf("expected 64 hex chars for sha256, got %d", len(digest))
	}
	if strings.ToLower(digest) != digest {
		t.Error("expected lowercase hex encoding")
	}
}

func TestBcryptHasher_RoundTrip(t *testing.T) {
	h := NewBcryptHasher(4) // min cost keeps the test fast

	digest, err := h.Hash("password")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	ok, err := h.Verify(digest, "password")
	if err != nil || !ok {
		t.Errorf("expected match, got ok=%v err=%v", ok, err)
	}
	ok, err = h.Verify(digest, "wrong")
	if err != nil || ok {
		t.Errorf("expected mismatch, got ok=%v err=%v", ok, err)
	}
}

func TestBcryptHasher_Salted(t *testing.T) {
	h := NewBcryptHasher(4)
	a, _ := h.Hash("password")
	b, _ := h.Hash("password")
	if a == b {
		t.Error("bcrypt digests must differ per record")
	}
}

func TestNewHasher_FromConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{"default is hmac", Config{Secret: "s"}, "*password.HMACHasher"},
		{"explicit hmac", Config{Algorithm: AlgorithmHMAC, Secret: "s"}, "*password.HMACHasher"},
		{"bcrypt", Config{Algorithm: AlgorithmBcrypt}, "*password.BcryptHasher"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHasher(tt.cfg)
			switch tt.want {
			case "*password.HMACHasher":
				if _, ok := h.(*HMACHasher); !ok {
					t.Errorf("expected HMACHasher, got %T", h)
				}
			case "*password.BcryptHasher":
				if _, ok := h.(*BcryptHasher); !ok {
					t.Errorf("expected BcryptHasher, got %T", h)
				}
			}
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	cfg := Config{Algorithm: AlgorithmHMAC}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err == nil {
		t.Error("hmac without a secret must not validate")
	}

	cfg = Config{Algorithm: "scrypt"}
	if err := cfg.Validate(); err == nil {
		t.Error("unknown algorithm must not validate")
	}
}
