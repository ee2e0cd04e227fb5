package contacts_test

import (
	"context"
	"errors"
	"testing"

	"veilchat/internal/crypto"
	"veilchat/internal/domain"
	"veilchat/internal/services/contacts"
	"veilchat/internal/store"
)

type countingDirectory struct {
	pems    map[domain.Identity]string
	lookups int
}

func (d *countingDirectory) Lookup(_ context.Context, id domain.Identity) (string, error) {
	d.lookups++
	pem, ok := d.pems[id]
	if !ok {
		return "", domain.ErrKeyNotFound
	}
	return pem, nil
}

func (d *countingDirectory) Upload(context.Context, string) error { return nil }

func TestResolve_CachesDirectoryHits(t *testing.T) {
	pub, _, err := crypto.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}
	pem, err := crypto.ExportPublicKey(pub)
	if err != nil {
		t.Fatalf("ExportPublicKey: %v", err)
	}

	dir := &countingDirectory{pems: map[domain.Identity]string{"bob": pem}}
	svc := contacts.New(store.NewKeyCache(), dir, crypto.NewProvider())

	first, err := svc.Resolve(context.Background(), "bob")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	second, err := svc.Resolve(context.Background(), "bob")
	if err != nil {
		t.Fatalf("Resolve (cached): %v", err)
	}
	if first != second {
		t.Fatal("cached resolve returned a different key object")
	}
	if dir.lookups != 1 {
		t.Fatalf("want 1 directory lookup, got %d", dir.lookups)
	}
}

func TestResolve_MissIsKeyNotFound(t *testing.T) {
	dir := &countingDirectory{pems: map[domain.Identity]string{}}
	svc := contacts.New(store.NewKeyCache(), dir, crypto.NewProvider())

	if _, err := svc.Resolve(context.Background(), "ghost"); !errors.Is(err, domain.ErrKeyNotFound) {
		t.Fatalf("want ErrKeyNotFound, got %v", err)
	}
	// A miss must not be cached as anything.
	if _, err := svc.Resolve(context.Background(), "ghost"); !errors.Is(err, domain.ErrKeyNotFound) {
		t.Fatalf("want ErrKeyNotFound on retry, got %v", err)
	}
	if dir.lookups != 2 {
		t.Fatalf("want 2 directory lookups, got %d", dir.lookups)
	}
}

func TestResolve_BadDirectoryKey(t *testing.T) {
	dir := &countingDirectory{pems: map[domain.Identity]string{"bob": "garbage"}}
	svc := contacts.New(store.NewKeyCache(), dir, crypto.NewProvider())

	if _, err := svc.Resolve(context.Background(), "bob"); !errors.Is(err, domain.ErrInvalidKeyFormat) {
		t.Fatalf("want ErrInvalidKeyFormat, got %v", err)
	}
}
