package cgauth

import (
	"crypto/ed25519"
	"encoding/base64"
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func genKeys(t *testing.T) (ed25519.PublicKey, ed25519.PrivateKey) {
	t.Helper()
	pub, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	return pub, priv
}

func TestVerifyPresign_RoundTrip(t *testing.T) {
	pub, priv := genKeys(t)
	now := time.Unix(1_700_000_000, 0)

	token, err := SignPresign(priv, "GET", "assets", "a/b.png", now.Add(time.Hour))
	if err != nil {
		t.Fatalf("SignPresign: %v", err)
	}

	if err := VerifyPresign(pub, token, "GET", "assets", "a/b.png", now); err != nil {
		t.Fatalf("VerifyPresign: %v", err)
	}
}

func TestVerifyPresign_MethodCaseInsensitive(t *testing.T) {
	pub, priv := genKeys(t)
	now := time.Unix(1_700_000_000, 0)
	token, _ := SignPresign(priv, "get", "assets", "a/b.png", now.Add(time.Hour))

	if err := VerifyPresign(pub, token, "GET", "assets", "a/b.png", now); err != nil {
		t.Fatalf("expected case-insensitive method match, got %v", err)
	}
}

func TestVerifyPresign_Expired(t *testing.T) {
	pub, priv := genKeys(t)
	now := time.Unix(1_700_000_000, 0)
	token, _ := SignPresign(priv, "GET", "assets", "a/b.png", now.Add(-time.Second))

	err := VerifyPresign(pub, token, "GET", "assets", "a/b.png", now)
	if !errors.Is(err, ErrExpired) {
		t.Fatalf("err = %v, want ErrExpired", err)
	}
}

func TestVerifyPresign_BucketPathMismatch(t *testing.T) {
	pub, priv := genKeys(t)
	now := time.Unix(1_700_000_000, 0)
	token, _ := SignPresign(priv, "GET", "assets", "a/b.png", now.Add(time.Hour))

	if err := VerifyPresign(pub, token, "GET", "other-bucket", "a/b.png", now); !errors.Is(err, ErrMismatch) {
		t.Errorf("bucket mismatch: err = %v, want ErrMismatch", err)
	}
	if err := VerifyPresign(pub, token, "GET", "assets", "different.png", now); !errors.Is(err, ErrMismatch) {
		t.Errorf("path mismatch: err = %v, want ErrMismatch", err)
	}
}

func TestVerifyPresign_WrongKey(t *testing.T) {
	_, priv := genKeys(t)
	otherPub, _ := genKeys(t)
	now := time.Unix(1_700_000_000, 0)
	token, _ := SignPresign(priv, "GET", "assets", "a/b.png", now.Add(time.Hour))

	if err := VerifyPresign(otherPub, token, "GET", "assets", "a/b.png", now); !errors.Is(err, ErrInvalidSignature) {
		t.Errorf("err = %v, want ErrInvalidSignature", err)
	}
}

func TestVerifyPresign_MalformedToken(t *testing.T) {
	pub, _ := genKeys(t)
	now := time.Unix(1_700_000_000, 0)

	if err := VerifyPresign(pub, "not-a-token", "GET", "assets", "a/b.png", now); !errors.Is(err, ErrMalformedSignature) {
		t.Errorf("no dot: err = %v, want ErrMalformedSignature", err)
	}
	if err := VerifyPresign(pub, "!!!.sig", "GET", "assets", "a/b.png", now); !errors.Is(err, ErrMalformedPayload) {
		t.Errorf("bad payload b64: err = %v, want ErrMalformedPayload", err)
	}
}

func TestVerifyPresign_UnsupportedVersion(t *testing.T) {
	pub, priv := genKeys(t)
	now := time.Unix(1_700_000_000, 0)

	payload := presignPayload{V: 2, Exp: now.Add(time.Hour).Unix(), M: "GET", B: "assets", P: "a/b.png"}
	raw, _ := json.Marshal(payload)
	sig := ed25519.Sign(priv, raw)
	token := base64.RawURLEncoding.EncodeToString(raw) + "." + base64.RawURLEncoding.EncodeToString(sig)

	if err := VerifyPresign(pub, token, "GET", "assets", "a/b.png", now); !errors.Is(err, ErrUnsupportedVersion) {
		t.Errorf("err = %v, want ErrUnsupportedVersion", err)
	}
}
