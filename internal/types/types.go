package types

import "context"

// Core interfaces
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

type Extractor interface {
	Extract(html string) (string, error)
}
