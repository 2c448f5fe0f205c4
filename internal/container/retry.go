// SPDX-License-Identifier: MPL-2.0

package container

import (
	"context"
	"fmt"
	"time"
)

const pullAttempts = 3

// pullBackoffBase is the delay before the second pull attempt; it doubles afterwards.
var pullBackoffBase = 2 * time.Second

// RetryWithBackoff retries op up to maxAttempts times with exponential backoff.
// ctx is checked between attempts and while sleeping.
//
// op returns (retry bool, err error). If retry is false, err is returned immediately
// (nil on success). On exhaustion the last error is returned.
func RetryWithBackoff(
	ctx context.Context,
	maxAttempts int,
	baseBackoff time.Duration,
	op func(attempt int) (retry bool, err error),
) error {
	var lastErr error
	for attempt := range maxAttempts {
		if attempt > 0 {
			timer := time.NewTimer(baseBackoff * time.Duration(1<<(attempt-1)))
			select {
			case <-ctx.Done():
				timer.Stop()
				return fmt.Errorf("retry aborted: %w", ctx.Err())
			case <-timer.C:
			}
		}

		retry, err := op(attempt)
		if err == nil {
			return nil
		}
		if !retry {
			return err
		}
		lastErr = err
	}
	return lastErr
}
