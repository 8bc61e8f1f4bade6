// Package lifecycle holds shared timeouts for application start and stop hooks.
package lifecycle

import "time"

// DefaultTimeout bounds how long a single start or stop hook may take.
const DefaultTimeout = 30 * time.Second
