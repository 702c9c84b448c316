package crypto

import (
	"strings"
	"testing"
)

func TestEncryptDecryptRoundtrip(t *testing.T) {
	key, err := GenerateKey()
	if err != nil {
		t.Fatal(err)
	}

	encrypted, err := Encrypt("s3cret-foreman-pass", key)
	if err != nil {
		t.Fatal(err)
	}

	if !strings.HasPrefix(encrypted, Prefix) || !strings.HasSuffix(encrypted, Suffix) {
		t.Fatalf("unexpected format: %s", encrypted)
	}
	if strings.Contains(encrypted, "s3cret") {
		t.Fatal("plaintext leaked into encrypted value")
	}

	plain, err := Decrypt(encrypted, key)
	if err != nil {
		t.Fatal(err)
	}
	if plain != "s3cret-foreman-pass" {
		t.Fatalf("got %q", plain)
	}
}

func TestDecryptWithWrongKeyFails(t *testing.T) {
	key1, _ := GenerateKey()
	key2, _ := GenerateKey()

	encrypted, err := Encrypt("value", key1)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := Decrypt(encrypted, key2); err == nil {
		t.Fatal("expected decryption failure with wrong key")
	}
}

func TestDecryptRejectsUnwrappedValues(t *testing.T) {
	key, _ := GenerateKey()

	if _, err := Decrypt("plain-value", key); err == nil {
		t.Fatal("expected error for unwrapped value")
	}
	if _, err := Decrypt(Prefix+"not base64!!!"+Suffix, key); err == nil {
		t.Fatal("expected error for invalid base64")
	}
}

func TestIsEncrypted(t *testing.T) {
	if IsEncrypted("password") {
		t.Fatal("plain value reported as encrypted")
	}
	if !IsEncrypted(Prefix + "abcd" + Suffix) {
		t.Fatal("wrapped value not recognized")
	}
}

func TestEncryptRejectsBadKeys(t *testing.T) {
	if _, err := Encrypt("x", "not-hex"); err == nil {
		t.Fatal("expected error for non-hex key")
	}
	if _, err := Encrypt("x", "abcd"); err == nil {
		t.Fatal("expected error for short key")
	}
}
