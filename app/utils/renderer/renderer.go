package renderer

import (
	"github.com/unrolled/render"
)

// New returns a JSON-only renderer; the API has no HTML templates.
func New(indent bool) *render.Render {
	return render.New(render.Options{
		IndentJSON:                indent,
		DisableHTTPErrorRendering: true,
	})
}
