package port

import "context"

// OwnerLocker serialises work for a single owner key. Unlock must be called
// exactly once after a successful Lock.
type OwnerLocker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}
