package notification

import "context"

// Pusher delivers an out-of-band notification to a participant's device
// when no live connection can receive a broadcast.
type Pusher interface {
	Push(ctx context.Context, token, title, body string, data map[string]string) error
}
