// Package storage abstracts object storage behind a Disk interface with
// a local-filesystem driver and an S3-compatible driver.
package storage

import "io"

// Disk is a flat object store. Implementations: local, s3.
type Disk interface {
	Put(path string, content []byte) error
	PutStream(path string, r io.Reader) error
	Get(path string) ([]byte, error)
	GetStream(path string) (io.ReadCloser, error)
	Exists(path string) bool
	Delete(path string) error
	// URL returns the public URL an uploaded object is served from.
	URL(path string) string
}
