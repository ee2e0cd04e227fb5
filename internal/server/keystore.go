package server

import (
	"encoding/json"
	"fmt"
	"sync"

	bolt "go.etcd.io/bbolt"

	"veilchat/internal/domain"
)

// KeyStore holds published public keys for the colocated directory. Records
// are created on first upload, replaced on re-upload, never deleted.
type KeyStore interface {
	Get(identity domain.Identity) (domain.KeyRecord, bool, error)
	Put(record domain.KeyRecord) error
	Close() error
}

// MemoryKeyStore keeps key records in memory; state is lost on process exit.
type MemoryKeyStore struct {
	mu      sync.RWMutex
	records map[domain.Identity]domain.KeyRecord
}

// NewMemoryKeyStore returns an empty in-memory store.
func NewMemoryKeyStore() *MemoryKeyStore {
	return &MemoryKeyStore{records: make(map[domain.Identity]domain.KeyRecord)}
}

func (s *MemoryKeyStore) Get(identity domain.Identity) (domain.KeyRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[identity]
	return rec, ok, nil
}

func (s *MemoryKeyStore) Put(record domain.KeyRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[record.Identity] = record
	return nil
}

func (s *MemoryKeyStore) Close() error { return nil }

// BoltKeyStore persists key records in a bbolt database so published keys
// survive relay restarts.
type BoltKeyStore struct {
	db *bolt.DB
}

var keysBucket = []byte("keys")

// OpenBoltKeyStore opens (or creates) the database at path.
func OpenBoltKeyStore(path string) (*BoltKeyStore, error) {
	db, err := bolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("open key db: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(keysBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init key db: %w", err)
	}
	return &BoltKeyStore{db: db}, nil
}

func (s *BoltKeyStore) Get(identity domain.Identity) (domain.KeyRecord, bool, error) {
	var rec domain.KeyRecord
	var found bool
	err := s.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(keysBucket).Get([]byte(identity))
		if raw == nil {
			return nil
		}
		found = true
		return json.Unmarshal(raw, &rec)
	})
	return rec, found, err
}

func (s *BoltKeyStore) Put(record domain.KeyRecord) error {
	raw, err := json.Marshal(record)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(keysBucket).Put([]byte(record.Identity), raw)
	})
}

func (s *BoltKeyStore) Close() error { return s.db.Close() }

// Compile-time assertions.
var (
	_ KeyStore = (*MemoryKeyStore)(nil)
	_ KeyStore = (*BoltKeyStore)(nil)
)
