package redis

import (
	"context"
	"io"
)

// Shutdown wraps the client's Close in the signature shutdown hooks take,
// so the pool drains when the app stops:
//
//	err := app.Run(":8080", anvil.ShutdownHook(redis.Shutdown(client)))
func Shutdown(client io.Closer) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		return client.Close()
	}
}
