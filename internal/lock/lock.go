// Package lock serialises availability checks per property so two requests
// cannot both pass the overlap check for the same nights.
package lock

import (
	"context"
	"errors"
	"time"
)

var ErrNotAcquired = errors.New("lock: not acquired")

// Locker hands out exclusive per-key locks. The returned release function
// must be called exactly once.
type Locker interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}

const retryInterval = 25 * time.Millisecond

func PropertyKey(propertyID string) string {
	return "circlepoint:lock:property:" + propertyID
}
