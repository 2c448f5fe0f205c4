// SPDX-License-Identifier: MPL-2.0

package container

import (
	"context"
	"errors"
	"net"
	"strings"
)

// IsTransientError reports whether err is a container engine error that may succeed
// on retry, such as a registry timeout during an image pull.
//
// Context cancellation and deadline errors are never transient.
func IsTransientError(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	errStr := err.Error()

	// Registry and DNS hiccups while pulling build images.
	if strings.Contains(errStr, "Temporary failure resolving") ||
		strings.Contains(errStr, "Could not resolve host") ||
		strings.Contains(errStr, "TLS handshake timeout") ||
		strings.Contains(errStr, "connection reset by peer") ||
		strings.Contains(errStr, "connection timed out") ||
		strings.Contains(errStr, "i/o timeout") {
		return true
	}

	// Rate limiting and 5xx answers from the registry.
	if strings.Contains(errStr, "toomanyrequests") ||
		strings.Contains(errStr, "503 Service Unavailable") ||
		strings.Contains(errStr, "502 Bad Gateway") {
		return true
	}

	return false
}
