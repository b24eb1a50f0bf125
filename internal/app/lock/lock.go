// Package lock serialises read-check-write sequences on a user's balance.
package lock

import (
	"context"
	"sort"
)

// Unlock releases the locks taken by one Lock call.
type Unlock func()

// Locker takes exclusive per-user locks. Several ids are locked in ascending order.
type Locker interface {
	Lock(ctx context.Context, userIDs ...int64) (Unlock, error)
}

// normalize sorts ids and drops duplicates.
func normalize(ids []int64) []int64 {
	res := make([]int64, 0, len(ids))
	res = append(res, ids...)
	sort.Slice(res, func(i, j int) bool { return res[i] < res[j] })

	n := 0
	for i, id := range res {
		if i > 0 && id == res[n-1] {
			continue
		}
		res[n] = id
		n++
	}
	return res[:n]
}

func releaseAll(fns []func()) Unlock {
	return func() {
		for i := len(fns) - 1; i >= 0; i-- {
			fns[i]()
		}
	}
}
