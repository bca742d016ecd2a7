// Package backup exports the client's buckets as one passphrase-encrypted
// container, so a device's data can move to another device or survive a
// reinstall.
package backup

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/upwardia/upwardia/internal/localstore"
)

const container = "upwardia-backup"

// payload is the plaintext container: format marker plus the raw blob of
// every bucket present at export time.
type payload struct {
	Format  string                     `json:"format"`
	Version int                        `json:"version"`
	Buckets map[string]json.RawMessage `json:"buckets"`
}

// Export reads every bucket and returns the encrypted container.
func Export(ctx context.Context, store localstore.Store, passphrase string) ([]byte, error) {
	p := payload{
		Format:  container,
		Version: 1,
		Buckets: make(map[string]json.RawMessage, len(localstore.Buckets)),
	}

	for _, b := range localstore.Buckets {
		data, ok, err := store.Get(ctx, b)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", b, err)
		}
		if ok {
			p.Buckets[string(b)] = json.RawMessage(data)
		}
	}

	plaintext, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("marshal container: %w", err)
	}
	return encrypt(plaintext, passphrase)
}

// Import decrypts a container and writes its buckets back. Buckets in the
// container overwrite current data; buckets absent from it are untouched.
func Import(ctx context.Context, store localstore.Store, data []byte, passphrase string) error {
	plaintext, err := decrypt(data, passphrase)
	if err != nil {
		return err
	}

	var p payload
	if err := json.Unmarshal(plaintext, &p); err != nil {
		return fmt.Errorf("unmarshal container: %w", err)
	}
	if p.Format != container {
		return fmt.Errorf("not an upwardia backup")
	}

	for name, blob := range p.Buckets {
		if err := store.Set(ctx, localstore.Bucket(name), []byte(blob)); err != nil {
			return fmt.Errorf("restore %s: %w", name, err)
		}
	}
	return nil
}

// ExportFile writes an encrypted container to path with owner-only
// permissions.
func ExportFile(ctx context.Context, store localstore.Store, path, passphrase string) error {
	data, err := Export(ctx, store, passphrase)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write backup: %w", err)
	}
	return nil
}

// ImportFile restores buckets from an encrypted container file.
func ImportFile(ctx context.Context, store localstore.Store, path, passphrase string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read backup: %w", err)
	}
	return Import(ctx, store, data, passphrase)
}
