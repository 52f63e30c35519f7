package i

import "context"

// UnlockFunc releases a lock obtained from a Locker.
type UnlockFunc func(context.Context) error

// Locker hands out mutexes shared by every API replica.
type Locker interface {
	Lock(ctx context.Context, key string) (UnlockFunc, error)
}
