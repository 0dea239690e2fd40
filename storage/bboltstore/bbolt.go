// Package bboltstore provides a BBolt-backed storage.Store with at-rest
// protection. Values are sealed with AES-GCM under a key derived from a
// master key file created on first open; the derived key is held in a
// memguard locked buffer for the lifetime of the store.
package bboltstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/awnumar/memguard"
	"go.etcd.io/bbolt"

	"github.com/precifi/precifi-go/internal/util"
	"github.com/precifi/precifi-go/storage"
)

const (
	dbFileName  = "credentials.db"
	keyFileName = "credentials.key"

	bucketName = "credentials"

	// sealInfo binds the derived sealing key to this store's purpose.
	sealInfo = "precifi/credential-store/v1"
)

// Store implements storage.Store backed by a BBolt database.
type Store struct {
	db      *bbolt.DB
	sealKey *memguard.LockedBuffer
}

var _ storage.Store = (*Store)(nil)

// Open opens (or initializes) a credential store under dir. The directory
// and its key file are created with owner-only permissions on first use.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}

	master, err := loadOrCreateMasterKey(filepath.Join(dir, keyFileName))
	if err != nil {
		return nil, err
	}
	defer util.WipeBytes(master)

	derived, err := util.DeriveKey(master, nil, []byte(sealInfo))
	if err != nil {
		return nil, fmt.Errorf("deriving sealing key: %w", err)
	}

	db, err := bbolt.Open(filepath.Join(dir, dbFileName), 0o600, nil)
	if err != nil {
		util.WipeBytes(derived)
		return nil, fmt.Errorf("opening bbolt db: %w", err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		return err
	})
	if err != nil {
		db.Close()
		util.WipeBytes(derived)
		return nil, fmt.Errorf("creating bucket: %w", err)
	}

	// NewBufferFromBytes wipes the source slice.
	return &Store{db: db, sealKey: memguard.NewBufferFromBytes(derived)}, nil
}

func loadOrCreateMasterKey(path string) ([]byte, error) {
	key, err := os.ReadFile(path)
	if err == nil {
		if len(key) != util.AESKeySize {
			return nil, fmt.Errorf("master key file %s has invalid size %d", path, len(key))
		}
		return key, nil
	}
	if !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading master key file: %w", err)
	}

	key, err = util.RandomBytes(util.AESKeySize)
	if err != nil {
		return nil, fmt.Errorf("generating master key: %w", err)
	}
	if err := os.WriteFile(path, key, 0o600); err != nil {
		return nil, fmt.Errorf("writing master key file: %w", err)
	}
	return key, nil
}

// Close closes the underlying database and destroys the sealing key.
func (s *Store) Close() error {
	s.sealKey.Destroy()
	return s.db.Close()
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var sealed []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket([]byte(bucketName)).Get([]byte(key))
		if data == nil {
			return fmt.Errorf("%s: %w", key, storage.ErrNotFound)
		}
		sealed = append([]byte(nil), data...)
		return nil
	})
	if err != nil {
		return "", err
	}
	// The key name is bound as AAD so values cannot be swapped between keys
	// by editing the database file.
	plain, err := util.DecryptAESWithAAD(sealed, s.sealKey.Bytes(), []byte(key))
	if err != nil {
		return "", fmt.Errorf("unsealing %s: %w", key, err)
	}
	return string(plain), nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	sealed, err := util.EncryptAESWithAAD([]byte(value), s.sealKey.Bytes(), []byte(key))
	if err != nil {
		return fmt.Errorf("sealing %s: %w", key, err)
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(bucketName)).Put([]byte(key), sealed)
	})
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(bucketName)).Delete([]byte(key))
	})
}
