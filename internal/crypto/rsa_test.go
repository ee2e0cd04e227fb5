package crypto_test

import (
	"bytes"
	"errors"
	"testing"

	"veilchat/internal/crypto"
	"veilchat/internal/domain"
)

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	pub, priv, err := crypto.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}

	for _, plaintext := range [][]byte{
		[]byte("hi"),
		[]byte(""),
		bytes.Repeat([]byte{0xAB}, crypto.OAEPLimit),
	} {
		ct, err := crypto.Encrypt(plaintext, pub)
		if err != nil {
			t.Fatalf("Encrypt(%d bytes): %v", len(plaintext), err)
		}
		got, err := crypto.Decrypt(ct, priv)
		if err != nil {
			t.Fatalf("Decrypt: %v", err)
		}
		if !bytes.Equal(got, plaintext) {
			t.Fatalf("round trip mismatch for %d bytes", len(plaintext))
		}
	}
}

func TestEncrypt_OverOAEPLimit(t *testing.T) {
	pub, _, err := crypto.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}

	_, err = crypto.Encrypt(bytes.Repeat([]byte{1}, crypto.OAEPLimit+1), pub)
	if !errors.Is(err, domain.ErrPlaintextTooLarge) {
		t.Fatalf("want ErrPlaintextTooLarge, got %v", err)
	}
}

func TestDecrypt_WrongKey(t *testing.T) {
	pub, _, err := crypto.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}
	_, otherPriv, err := crypto.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}

	ct, err := crypto.Encrypt([]byte("secret"), pub)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	if _, err := crypto.Decrypt(ct, otherPriv); !errors.Is(err, domain.ErrDecryption) {
		t.Fatalf("want ErrDecryption, got %v", err)
	}
	if _, err := crypto.Decrypt(ct, nil); !errors.Is(err, domain.ErrDecryption) {
		t.Fatalf("want ErrDecryption for nil key, got %v", err)
	}
}

func TestExportImportPublicKey(t *testing.T) {
	pub, priv, err := crypto.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}

	pemStr, err := crypto.ExportPublicKey(pub)
	if err != nil {
		t.Fatalf("ExportPublicKey: %v", err)
	}
	back, err := crypto.ImportPublicKey(pemStr)
	if err != nil {
		t.Fatalf("ImportPublicKey: %v", err)
	}

	// An imported key must be usable for encryption to the original holder.
	ct, err := crypto.Encrypt([]byte("ping"), back)
	if err != nil {
		t.Fatalf("Encrypt with imported key: %v", err)
	}
	got, err := crypto.Decrypt(ct, priv)
	if err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	if string(got) != "ping" {
		t.Fatalf("got %q", got)
	}
}

func TestImportPublicKey_Invalid(t *testing.T) {
	for _, in := range []string{
		"",
		"   ",
		"not a pem at all",
		"-----BEGIN PUBLIC KEY-----\nAAAA\n-----END PUBLIC KEY-----\n",
	} {
		if _, err := crypto.ImportPublicKey(in); !errors.Is(err, domain.ErrInvalidKeyFormat) {
			t.Fatalf("ImportPublicKey(%q): want ErrInvalidKeyFormat, got %v", in, err)
		}
	}
}
