// Package persist stores downloaded bodies as <host>.html objects in a
// gocloud.dev/blob bucket.
package persist

import (
	"context"
	"fmt"

	"gocloud.dev/blob"
	"gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/memblob"
)

const (
	fileSuffix  = ".html"
	contentType = "text/html"
)

// BlobPersister writes bodies into a bucket
type BlobPersister struct {
	bucket *blob.Bucket
}

// New wraps an already opened bucket. The caller keeps ownership of it.
func New(bucket *blob.Bucket) *BlobPersister {
	return &BlobPersister{bucket: bucket}
}

// Open opens the bucket behind bucketURL, e.g. "file:///tmp/out" or "mem://".
func Open(ctx context.Context, bucketURL string) (*BlobPersister, error) {
	bucket, err := blob.OpenBucket(ctx, bucketURL)
	if err != nil {
		return nil, fmt.Errorf("open bucket %q: %w", bucketURL, err)
	}
	return New(bucket), nil
}

// OpenDir opens a directory on local disk, creating it if needed
func OpenDir(dir string) (*BlobPersister, error) {
	bucket, err := fileblob.OpenBucket(dir, &fileblob.Options{CreateDir: true})
	if err != nil {
		return nil, fmt.Errorf("open directory %q: %w", dir, err)
	}
	return New(bucket), nil
}

// Key returns the object name a host's body is stored under
func Key(host string) string {
	return host + fileSuffix
}

// Persist writes body to <host>.html, replacing any previous content
func (p *BlobPersister) Persist(ctx context.Context, host string, body []byte) error {
	opts := &blob.WriterOptions{ContentType: contentType}
	if err := p.bucket.WriteAll(ctx, Key(host), body, opts); err != nil {
		return fmt.Errorf("write %s: %w", Key(host), err)
	}
	return nil
}

// Close closes the underlying bucket
func (p *BlobPersister) Close() error {
	return p.bucket.Close()
}
