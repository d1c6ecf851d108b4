package locker

import "context"

// AdvisoryLocker serialises critical sections across processes using Postgres session
// advisory locks. TryWithLock never waits: when another session holds key it returns
// acquired=false without calling fn. Lock and unlock happen on the same DB connection,
// as session-level pg_advisory_lock requires.
type AdvisoryLocker interface {
	TryWithLock(ctx context.Context, key int64, fn func(ctx context.Context) error) (acquired bool, err error)
}
