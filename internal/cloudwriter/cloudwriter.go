// Package cloudwriter buffers an export object and uploads it to cloud
// storage when closed.
package cloudwriter

import "context"

type CloudWriter interface {
	Write(data []byte) (int, error)
	Close() error
}

type CloudWriterFactory interface {
	NewWriter(ctx context.Context, bucket, objectPath string) (CloudWriter, error)
}
