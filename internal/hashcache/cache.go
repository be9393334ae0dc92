// Package hashcache is the idempotency guard for the pipeline: an
// append-only, newline-delimited log of SHA-256 content hashes. A hash,
// once recorded, permanently marks that content as processed regardless
// of where the file lives.
package hashcache

import (
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"
)

// Cache reads and appends the flat hash log. The full set is reloaded on
// every membership check; the log is never rewritten, only appended.
type Cache struct {
	path string
}

func New(path string) *Cache {
	return &Cache{path: path}
}

// Path returns the location of the underlying log file.
func (c *Cache) Path() string {
	return c.path
}

// HashFile streams the file through SHA-256 and returns the lowercase hex digest.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open for hashing: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hash: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Load reads the entire hash set. A missing log file yields an empty set.
func (c *Cache) Load() (map[string]struct{}, error) {
	f, err := os.Open(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]struct{}{}, nil
		}
		return nil, fmt.Errorf("open hash log: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	set := map[string]struct{}{}
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line != "" {
			set[line] = struct{}{}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read hash log: %w", err)
	}
	return set, nil
}

// Seen reports whether the hash was recorded by a previous run. The log is
// reloaded in full on every call so concurrent appends from an earlier
// crash are still honored.
func (c *Cache) Seen(hash string) (bool, error) {
	set, err := c.Load()
	if err != nil {
		return false, err
	}
	_, ok := set[hash]
	return ok, nil
}

// Record appends the hash to the log, creating the file if needed.
func (c *Cache) Record(hash string) error {
	f, err := os.OpenFile(c.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open hash log for append: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	if _, err := f.WriteString(hash + "\n"); err != nil {
		return fmt.Errorf("append hash: %w", err)
	}
	return nil
}
