// internal/services/reporting/render-pdf/models.go
package renderpdf

import "context"

type Input struct {
	// Payload is the raw JSON export body.
	Payload []byte `json:"payload"`
}

type Output struct {
	PDF      []byte `json:"-"`
	Filename string `json:"filename"`
	Pages    int    `json:"pages"`
	Cached   bool   `json:"cached"`
}

// RenderCache stores finished documents by key.
type RenderCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
}
