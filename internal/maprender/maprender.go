package maprender

import (
	"context"

	"github.com/klangrad/klangrad/internal/geo"
)

// Renderer draws the sampled route as an image. Purely presentational; a
// failed render never affects the recorded session.
type Renderer interface {
	RenderRoute(ctx context.Context, points []geo.Point) ([]byte, error)
}
