package util

import (
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

// DeriveKey derives an AES-sized sealing key from a master secret via
// HKDF-SHA256. The info string binds the derived key to its purpose so a
// master key file is never reusable across stores.
func DeriveKey(master, salt, info []byte) ([]byte, error) {
	h := hkdf.New(sha256.New, master, salt, info)
	k := make([]byte, AESKeySize)
	if _, err := io.ReadFull(h, k); err != nil {
		return nil, fmt.Errorf("deriving sealing key: %w", err)
	}
	return k, nil
}
