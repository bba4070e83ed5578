package secret

import (
	"strings"
	"testing"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	plaintext := "sk-or-v1-0123456789abcdef"
	encrypted, err := store.Encrypt(plaintext)
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}

	if !strings.HasPrefix(encrypted, Prefix) {
		t.Errorf("Expected encrypted value to start with %q, got %q", Prefix, encrypted)
	}
	if strings.Contains(encrypted, plaintext) {
		t.Error("Encrypted value should not contain the plaintext")
	}

	decrypted, err := store.Decrypt(encrypted)
	if err != nil {
		t.Fatalf("Decrypt failed: %v", err)
	}
	if decrypted != plaintext {
		t.Errorf("Expected %q, got %q", plaintext, decrypted)
	}
}

func TestEncryptEmptyString(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	encrypted, err := store.Encrypt("")
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}
	if encrypted != "" {
		t.Errorf("Expected empty output for empty input, got %q", encrypted)
	}
}

func TestDecryptRejectsPlaintext(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	if _, err := store.Decrypt("sk-or-v1-plaintext"); err == nil {
		t.Error("Decrypt should reject a value without the prefix")
	}
}

func TestDecryptWithDifferentSaltFails(t *testing.T) {
	storeA, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create store A: %v", err)
	}
	storeB, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create store B: %v", err)
	}

	encrypted, err := storeA.Encrypt("secret value")
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}

	if _, err := storeB.Decrypt(encrypted); err == nil {
		t.Error("Decrypt with a different salt should fail")
	}
}

func TestSaltPersistsAcrossStores(t *testing.T) {
	dir := t.TempDir()

	storeA, err := NewStore(dir)
	if err != nil {
		t.Fatalf("Failed to create first store: %v", err)
	}
	encrypted, err := storeA.Encrypt("secret value")
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}

	storeB, err := NewStore(dir)
	if err != nil {
		t.Fatalf("Failed to create second store: %v", err)
	}
	decrypted, err := storeB.Decrypt(encrypted)
	if err != nil {
		t.Fatalf("Decrypt with reopened store failed: %v", err)
	}
	if decrypted != "secret value" {
		t.Errorf("Expected 'secret value', got %q", decrypted)
	}
}

func TestIsEncrypted(t *testing.T) {
	if !IsEncrypted("enc:abc") {
		t.Error("Expected enc: value to be reported encrypted")
	}
	if IsEncrypted("sk-or-v1-abc") {
		t.Error("Plain value should not be reported encrypted")
	}
	if IsEncrypted("") {
		t.Error("Empty value should not be reported encrypted")
	}
}
