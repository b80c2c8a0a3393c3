package weather

import "context"

// Report describes the conditions at a coordinate. Sentence is ready-made
// narration text; Country feeds the persisted session record.
type Report struct {
	Country  string
	Sentence string
}

type Service interface {
	Lookup(ctx context.Context, lat, lon float64) (Report, error)
}
