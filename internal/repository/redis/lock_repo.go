package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	UserLockPrefix = "lock:user"
	// UserLockTTL 覆盖一次投稿管线（redis + mysql + 媒体扫描）的上限
	UserLockTTL = 5 * time.Second
)

// UserLock 每用户一把的分布式锁，封住限流/计数的 check-then-act 窗口
type UserLock struct {
	RDB *redis.Client
}

func NewUserLock() *UserLock {
	return &UserLock{RDB: Client}
}

func (l *UserLock) key(userID uint64) string {
	return fmt.Sprintf("%s:%d", UserLockPrefix, userID)
}

// Acquire 拿到锁返回 token，释放时凭 token 校验归属
func (l *UserLock) Acquire(ctx context.Context, userID uint64) (string, bool, error) {
	token := uuid.NewString()
	ok, err := l.RDB.SetNX(ctx, l.key(userID), token, UserLockTTL).Result()
	if err != nil {
		return "", false, err
	}
	return token, ok, nil
}

// Release 用lua保证原子性
func (l *UserLock) Release(ctx context.Context, userID uint64, token string) error {
	_, err := redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
  return redis.call("del", KEYS[1])
else
  return 0
end`).Run(ctx, l.RDB, []string{l.key(userID)}, token).Result()
	return err
}
