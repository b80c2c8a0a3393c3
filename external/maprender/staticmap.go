package maprender

import (
	"bytes"
	"context"
	"fmt"
	"image/color"
	"image/png"

	sm "github.com/flopp/go-staticmaps"
	"github.com/golang/geo/s2"
	"github.com/klangrad/klangrad/internal/geo"
	"github.com/klangrad/klangrad/internal/maprender"
)

const (
	mapWidth  = 400
	mapHeight = 400
)

type StaticMapRenderer struct{}

func NewStaticMapRenderer() maprender.Renderer {
	return &StaticMapRenderer{}
}

// RenderRoute draws the travelled path on an OSM tile background. The route is
// drawn twice, a wider white line under a red one, so it stays readable on
// both dark and light tiles.
func (r *StaticMapRenderer) RenderRoute(ctx context.Context, points []geo.Point) ([]byte, error) {
	if len(points) == 0 {
		return nil, fmt.Errorf("no points to render")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	positions := make([]s2.LatLng, 0, len(points))
	for _, p := range points {
		positions = append(positions, s2.LatLngFromDegrees(p.Lat, p.Lon))
	}

	mc := sm.NewContext()
	mc.SetSize(mapWidth, mapHeight)
	if len(positions) > 1 {
		mc.AddObject(sm.NewPath(positions, color.White, 4))
		mc.AddObject(sm.NewPath(positions, color.RGBA{R: 0xd2, G: 0x32, B: 0x2d, A: 0xff}, 3))
	} else {
		mc.AddObject(sm.NewMarker(positions[0], color.RGBA{R: 0xd2, G: 0x32, B: 0x2d, A: 0xff}, 16))
	}

	img, err := mc.Render()
	if err != nil {
		return nil, fmt.Errorf("failed to render map: %w", err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode map image: %w", err)
	}
	return buf.Bytes(), nil
}
