package ports

import "context"

// Fetcher retrieves the bytes behind a URI
type Fetcher interface {
	Fetch(ctx context.Context, uri string) ([]byte, error)
}

// Writer stores bytes at a URI
type Writer interface {
	Write(ctx context.Context, uri string, data []byte) error
}

// Transport is the storage layer used for both loading and saving scenes
type Transport interface {
	Fetcher
	Writer
}
