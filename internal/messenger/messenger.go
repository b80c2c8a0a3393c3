package messenger

import "context"

// Sink is the fire-and-forget notification surface. Failures are returned to
// the caller for logging; nothing is retried.
type Sink interface {
	SendText(ctx context.Context, chatID int64, text string) error
	SendImage(ctx context.Context, chatID int64, image []byte) error
	SendLocation(ctx context.Context, chatID int64, lat, lon float64) error
}
