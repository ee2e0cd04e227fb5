package server

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"veilchat/internal/domain"
)

func TestKeyStores_PutGetReplace(t *testing.T) {
	boltPath := filepath.Join(t.TempDir(), "keys.db")
	boltStore, err := OpenBoltKeyStore(boltPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = boltStore.Close() })

	stores := map[string]KeyStore{
		"memory": NewMemoryKeyStore(),
		"bolt":   boltStore,
	}

	for name, s := range stores {
		t.Run(name, func(t *testing.T) {
			_, ok, err := s.Get("alice")
			require.NoError(t, err)
			require.False(t, ok)

			require.NoError(t, s.Put(domain.KeyRecord{
				Identity: "alice", PublicKeyPEM: "pem-1", HasPublicKey: true,
			}))
			rec, ok, err := s.Get("alice")
			require.NoError(t, err)
			require.True(t, ok)
			require.Equal(t, "pem-1", rec.PublicKeyPEM)

			// Re-upload replaces, never duplicates.
			require.NoError(t, s.Put(domain.KeyRecord{
				Identity: "alice", PublicKeyPEM: "pem-2", HasPublicKey: true,
			}))
			rec, ok, err = s.Get("alice")
			require.NoError(t, err)
			require.True(t, ok)
			require.Equal(t, "pem-2", rec.PublicKeyPEM)
		})
	}
}

func TestBoltKeyStore_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keys.db")

	s, err := OpenBoltKeyStore(path)
	require.NoError(t, err)
	require.NoError(t, s.Put(domain.KeyRecord{Identity: "bob", PublicKeyPEM: "pem", HasPublicKey: true}))
	require.NoError(t, s.Close())

	s, err = OpenBoltKeyStore(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	rec, ok, err := s.Get("bob")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "pem", rec.PublicKeyPEM)
}
