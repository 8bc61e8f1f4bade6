// Package delivery defines the contract every transport adapter satisfies.
package delivery

import "context"

// Delivery is a long-running transport serving the application, such as the
// HTTP server. Implementations block in Serve until shut down.
type Delivery interface {
	Serve(ctx context.Context) error
}
