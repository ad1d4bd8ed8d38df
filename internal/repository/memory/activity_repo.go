// Package memory 提供活动账本的内存实现，接口与 redis 版一致，
// 供单测与本地联调使用（不要用于多实例部署）。
package memory

import (
	"context"
	"sync"
	"time"

	"Lee_Moderation/internal/model"
)

const retention = 24 * time.Hour

type ActivityRepository struct {
	mu      sync.Mutex
	entries map[string][]time.Time
}

func NewActivityRepository() *ActivityRepository {
	return &ActivityRepository{entries: make(map[string][]time.Time)}
}

func key(userID uint64, action model.ActionType) string {
	return string(action) + "/" + itoa(userID)
}

func itoa(n uint64) string {
	if n == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}

func (r *ActivityRepository) Record(_ context.Context, userID uint64, action model.ActionType, ts time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := key(userID, action)
	kept := r.entries[k][:0]
	cutoff := ts.Add(-retention)
	for _, t := range r.entries[k] {
		if !t.Before(cutoff) {
			kept = append(kept, t)
		}
	}
	r.entries[k] = append(kept, ts)
	return nil
}

func (r *ActivityRepository) CountSince(_ context.Context, userID uint64, action model.ActionType, since time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, t := range r.entries[key(userID, action)] {
		if !t.Before(since) {
			n++
		}
	}
	return n, nil
}

func (r *ActivityRepository) LastAction(_ context.Context, userID uint64, action model.ActionType) (time.Time, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := r.entries[key(userID, action)]
	if len(list) == 0 {
		return time.Time{}, false, nil
	}
	last := list[0]
	for _, t := range list[1:] {
		if t.After(last) {
			last = t
		}
	}
	return last, true, nil
}
