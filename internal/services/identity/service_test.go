package identity_test

import (
	"context"
	"errors"
	"testing"

	"veilchat/internal/crypto"
	"veilchat/internal/domain"
	"veilchat/internal/services/identity"
	"veilchat/internal/store"
)

const goodPassphrase = "Str0ng-passphrase!"

type fakeDirectory struct {
	uploads []string
	fail    error
}

func (d *fakeDirectory) Lookup(context.Context, domain.Identity) (string, error) {
	return "", domain.ErrKeyNotFound
}

func (d *fakeDirectory) Upload(_ context.Context, pem string) error {
	if d.fail != nil {
		return d.fail
	}
	d.uploads = append(d.uploads, pem)
	return nil
}

func TestEnsureIdentity_GeneratesThenReuses(t *testing.T) {
	home := t.TempDir()
	dir := &fakeDirectory{}
	svc := identity.New(store.NewFileVault(home), crypto.NewProvider(), dir)

	fp1, created, err := svc.EnsureIdentity(context.Background(), goodPassphrase)
	if err != nil {
		t.Fatalf("EnsureIdentity: %v", err)
	}
	if !created {
		t.Fatal("first run must create a key pair")
	}
	if fp1 == "" {
		t.Fatal("empty fingerprint")
	}
	if len(dir.uploads) != 1 {
		t.Fatalf("want 1 upload, got %d", len(dir.uploads))
	}

	// Second run loads the same pair and re-publishes.
	fp2, created, err := svc.EnsureIdentity(context.Background(), goodPassphrase)
	if err != nil {
		t.Fatalf("EnsureIdentity (second): %v", err)
	}
	if created {
		t.Fatal("second run must not regenerate")
	}
	if fp2 != fp1 {
		t.Fatalf("fingerprint changed across runs: %s vs %s", fp1, fp2)
	}
	if dir.uploads[0] != dir.uploads[1] {
		t.Fatal("re-upload published a different public key")
	}
}

func TestEnsureIdentity_WeakPassphrase(t *testing.T) {
	svc := identity.New(store.NewFileVault(t.TempDir()), crypto.NewProvider(), &fakeDirectory{})

	_, _, err := svc.EnsureIdentity(context.Background(), "short")
	if !errors.Is(err, identity.ErrWeakPassphrase) {
		t.Fatalf("want ErrWeakPassphrase, got %v", err)
	}
}

func TestEnsureIdentity_UploadFailureSurfaces(t *testing.T) {
	dir := &fakeDirectory{fail: domain.ErrUnauthorized}
	svc := identity.New(store.NewFileVault(t.TempDir()), crypto.NewProvider(), dir)

	_, created, err := svc.EnsureIdentity(context.Background(), goodPassphrase)
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("want ErrUnauthorized, got %v", err)
	}
	// The key pair is still created locally; only the publish step failed.
	if !created {
		t.Fatal("expected local key creation before the failed upload")
	}
}
