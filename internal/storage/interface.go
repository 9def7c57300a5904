// Package storage archives analysis results and rendered reports. Backends
// share one contract so the server and scheduler never care whether blobs
// land in Azure or on local disk.
package storage

import (
	"fmt"
	"strings"
	"time"
)

// StorageInterface defines the contract for report archive backends
type StorageInterface interface {
	Store(filename string, data []byte) error
	Retrieve(filename string) ([]byte, error)
	List(prefix string) ([]string, error)
	Delete(filename string) error
}

// New selects the archive backend: Azure Blob Storage when an account name
// is configured, otherwise a local directory.
func New(accountName, containerName, localDir string) (StorageInterface, error) {
	if accountName != "" {
		return NewAzureStorage(accountName, containerName)
	}
	return NewLocalStorage(localDir)
}

// BlobName builds the archive key for an analysis artifact. Keys group by
// company slug and sort chronologically within it, so the latest run of a
// target is the last entry under its prefix.
func BlobName(company, ext string, at time.Time, id string) string {
	return fmt.Sprintf("%s/%s-%s.%s", Slug(company), at.UTC().Format("2006-01-02T15-04-05Z"), id, ext)
}

// Slug normalizes a company name into an archive prefix.
func Slug(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			b.WriteRune(r)
			dash = false
		} else if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	out := strings.TrimRight(b.String(), "-")
	if out == "" {
		return "report"
	}
	return out
}
