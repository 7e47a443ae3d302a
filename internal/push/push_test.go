package push

import (
	"encoding/base64"
	"testing"
)

func TestGenerateVAPIDKeys(t *testing.T) {
	pub, priv, err := GenerateVAPIDKeys()
	if err != nil {
		t.Fatalf("generate VAPID keys: %v", err)
	}

	// Uncompressed P-256 point, base64url without padding.
	pubBytes, err := base64.RawURLEncoding.DecodeString(pub)
	if err != nil {
		t.Fatalf("decode public key: %v", err)
	}
	if len(pubBytes) != 65 {
		t.Errorf("public key length = %d, want 65", len(pubBytes))
	}

	privBytes, err := base64.RawURLEncoding.DecodeString(priv)
	if err != nil {
		t.Fatalf("decode private key: %v", err)
	}
	if len(privBytes) != 32 {
		t.Errorf("private key length = %d, want 32", len(privBytes))
	}
}

func TestGenerateVAPIDKeysUnique(t *testing.T) {
	pub1, _, err := GenerateVAPIDKeys()
	if err != nil {
		t.Fatalf("first key pair: %v", err)
	}
	pub2, _, err := GenerateVAPIDKeys()
	if err != nil {
		t.Fatalf("second key pair: %v", err)
	}
	if pub1 == pub2 {
		t.Error("two generations produced the same public key")
	}
}

func TestServiceEnabled(t *testing.T) {
	if NewService("", "").Enabled() {
		t.Error("service with no keys reports enabled")
	}
	if NewService("pub-only", "").Enabled() {
		t.Error("service missing private key reports enabled")
	}

	pub, priv, err := GenerateVAPIDKeys()
	if err != nil {
		t.Fatalf("generate VAPID keys: %v", err)
	}
	svc := NewService(pub, priv)
	if !svc.Enabled() {
		t.Error("service with both keys reports disabled")
	}
	if svc.VAPIDPublicKey() != pub {
		t.Errorf("public key = %q, want %q", svc.VAPIDPublicKey(), pub)
	}
}
