package utils

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrWaitTimeout is returned by WaitFor when the condition never held.
var ErrWaitTimeout = errors.New("wait timed out")

// WaitFor polls check at the given interval until it returns (true, nil),
// returns a non-nil error, or the timeout/context expires. check always runs
// at least once.
func WaitFor(ctx context.Context, timeout, interval time.Duration, check func() (done bool, err error)) error {
	deadline := time.Now().Add(timeout)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		done, err := check()
		if err != nil {
			return err
		}
		if done {
			return nil
		}
		if !time.Now().Add(interval).Before(deadline) {
			return fmt.Errorf("%w after %s", ErrWaitTimeout, timeout)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interval):
		}
	}
}
