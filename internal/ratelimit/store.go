package ratelimit

import (
	"context"
	"time"
)

// Store decides whether a client identity may proceed right now.
//
// Allow must treat the read-prune-append cycle for one identity as a
// single atomic update: two concurrent calls racing for the last slot
// must not both be admitted. Absence of prior state counts as zero
// prior requests. A denied attempt is not recorded.
type Store interface {
	Allow(ctx context.Context, identity string, now time.Time) bool
}
