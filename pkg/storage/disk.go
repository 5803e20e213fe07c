// Package storage provides the filesystem abstraction behind product image
// uploads and exports.
//
// Two drivers are available out of the box:
//   - "local": local filesystem (default)
//   - "s3": S3-compatible object storage (AWS S3, MinIO, R2, Spaces)
//
// Quick start:
//
//	// boot once (in internal/server/server.go):
//	storage.Connect()
//
//	// default disk
//	storage.Put("products/42/photo.jpg", data)
//	url := storage.URL("products/42/photo.jpg")
//
//	// named disk
//	storage.Use("s3").Put("exports/orders.csv", data)
package storage

import "io"

// Disk is the filesystem driver interface.
type Disk interface {
	// Put writes content to path, creating parent directories as needed.
	Put(path string, content []byte) error

	// PutStream writes from r to path.
	PutStream(path string, r io.Reader) error

	// Get returns the full content of the file at path.
	Get(path string) ([]byte, error)

	// GetStream returns a ReadCloser for the file. Caller must close it.
	GetStream(path string) (io.ReadCloser, error)

	// Exists reports whether a file exists at path.
	Exists(path string) bool

	// Size returns the byte size of the file.
	Size(path string) (int64, error)

	// URL returns the public URL for path.
	URL(path string) string

	// Delete removes a file. Returns nil if the file did not exist.
	Delete(path string) error
}
