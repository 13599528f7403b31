package render

import "context"

// Renderer turns a rendered HTML document into image bytes. Implementations
// are opaque collaborators; the pipeline never inspects how rendering works.
type Renderer interface {
	Render(ctx context.Context, html string) ([]byte, error)
}
