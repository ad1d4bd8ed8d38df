package redis

import (
	"context"
	"fmt"
	"time"

	"Lee_Moderation/internal/model"

	"github.com/redis/go-redis/v9"
)

const (
	ActivityKeyPrefix = "activity" // activity:<userID>:<action> -> ZSET(member=纳秒时间戳, score=秒)
	// ActivityRetention 只查询尾部 24h（帖子）/1h（评论）窗口，
	// 保留期取最长窗口再留一倍余量，写入时顺带裁剪
	ActivityRetention = 24 * time.Hour
	ActivityKeyTTL    = 48 * time.Hour
)

// ActivityRepository 每用户每动作一个 ZSET 的滑动窗口活动账本
type ActivityRepository struct {
	RDB *redis.Client
}

func NewActivityRepository() *ActivityRepository {
	return &ActivityRepository{RDB: Client}
}

func (r *ActivityRepository) key(userID uint64, action model.ActionType) string {
	return fmt.Sprintf("%s:%d:%s", ActivityKeyPrefix, userID, action)
}

// Record 追加一条活动记录，单次往返完成写入+裁剪+续期
func (r *ActivityRepository) Record(ctx context.Context, userID uint64, action model.ActionType, ts time.Time) error {
	k := r.key(userID, action)
	cutoff := float64(ts.Add(-ActivityRetention).Unix())

	pipe := r.RDB.Pipeline()
	pipe.ZAdd(ctx, k, redis.Z{
		Score:  float64(ts.Unix()),
		Member: fmt.Sprintf("%d", ts.UnixNano()),
	})
	pipe.ZRemRangeByScore(ctx, k, "-inf", fmt.Sprintf("(%f", cutoff))
	pipe.Expire(ctx, k, ActivityKeyTTL)
	_, err := pipe.Exec(ctx)
	return err
}

// CountSince 窗口内（滑动、非自然日对齐）的动作次数
func (r *ActivityRepository) CountSince(ctx context.Context, userID uint64, action model.ActionType, since time.Time) (int, error) {
	n, err := r.RDB.ZCount(ctx, r.key(userID, action),
		fmt.Sprintf("%d", since.Unix()), "+inf").Result()
	return int(n), err
}

// LastAction 最近一次该动作的时间，没有记录时第二个返回值为 false
func (r *ActivityRepository) LastAction(ctx context.Context, userID uint64, action model.ActionType) (time.Time, bool, error) {
	zs, err := r.RDB.ZRevRangeWithScores(ctx, r.key(userID, action), 0, 0).Result()
	if err != nil {
		return time.Time{}, false, err
	}
	if len(zs) == 0 {
		return time.Time{}, false, nil
	}
	return time.Unix(int64(zs[0].Score), 0), true, nil
}
