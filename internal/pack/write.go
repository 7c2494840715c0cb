package pack

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/si978/memctl/internal/canonjson"
)

// Encode renders the document as canonical JSON: key-sorted, compact,
// UTF-8, single trailing newline. Byte-identical for equal documents.
func Encode(doc *Document) ([]byte, error) {
	return canonjson.Marshal(doc)
}

// WriteFile writes the encoded pack to path, creating parent directories as
// needed. A sidecar flock serializes concurrent writers aiming at the same
// artifact path; the repository itself is never touched.
func WriteFile(doc *Document, path string) error {
	data, err := Encode(doc)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("cannot create pack directory: %w", err)
		}
	}

	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("cannot lock pack output: %w", err)
	}
	defer func() {
		_ = lock.Unlock()
		_ = os.Remove(path + ".lock")
	}()

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("cannot write pack: %w", err)
	}
	return nil
}
