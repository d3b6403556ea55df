// Package storage keeps uploaded claim media on local disk and maps
// stored paths to the public URLs handed to the analyzer and extractor.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// DiskStore stores uploads under a root directory, one subdirectory
// per owner.
type DiskStore struct {
	root    string
	baseURL string
}

// NewDiskStore creates the root directory if needed. baseURL is the
// service's externally reachable base, e.g. "http://localhost:8080";
// stored files are served under its /files route.
func NewDiskStore(root, baseURL string) (*DiskStore, error) {
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, fmt.Errorf("create upload dir %s: %w", root, err)
	}
	return &DiskStore{root: root, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Save writes the upload to disk under a fresh random name, keeping
// the original extension. Returns the relative storage path.
func (s *DiskStore) Save(ownerID, filename string, r io.Reader) (string, error) {
	dir := filepath.Join(s.root, sanitize(ownerID))
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("create owner dir: %w", err)
	}

	name := uuid.NewString() + safeExt(filename)
	path := filepath.Join(dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("write file: %w", err)
	}

	return filepath.ToSlash(filepath.Join(sanitize(ownerID), name)), nil
}

// PublicURL maps a stored relative path to its public URL. Empty paths
// map to empty URLs.
func (s *DiskStore) PublicURL(relPath string) string {
	if relPath == "" {
		return ""
	}
	return s.baseURL + "/files/" + strings.TrimLeft(relPath, "/")
}

// ClaimURL synthesizes the public link back at a claim, used as the
// source URL of ingested fact-check articles.
func (s *DiskStore) ClaimURL(claimID string) string {
	return s.baseURL + "/claims/" + claimID
}

// Root returns the storage root directory for static file serving.
func (s *DiskStore) Root() string {
	return s.root
}

// sanitize strips path separators so an owner id can never escape the
// storage root.
func sanitize(s string) string {
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, "..", "_")
	if s == "" {
		return "_"
	}
	return s
}

// safeExt keeps short alphanumeric extensions and drops everything else.
func safeExt(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if len(ext) < 2 || len(ext) > 6 {
		return ""
	}
	for _, r := range ext[1:] {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return ""
		}
	}
	return ext
}
