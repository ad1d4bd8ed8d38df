package service

import (
	"context"
	"time"

	"Lee_Moderation/internal/model"
)

// 存储接口统一在此声明，mysql/redis/memory 各自实现，服务层只面向接口，
// 并发保证（条件更新、行锁、ZSET 窗口）由实现侧承担。

// ActivityStore 每用户的滑动窗口活动账本
type ActivityStore interface {
	Record(ctx context.Context, userID uint64, action model.ActionType, ts time.Time) error
	CountSince(ctx context.Context, userID uint64, action model.ActionType, since time.Time) (int, error)
	LastAction(ctx context.Context, userID uint64, action model.ActionType) (time.Time, bool, error)
}

// ContentStore 帖子/评论的发布、软删与近期查询
type ContentStore interface {
	CreatePost(ctx context.Context, post *model.Post) error
	CreateComment(ctx context.Context, comment *model.Comment) error
	FindPost(ctx context.Context, id uint64) (*model.Post, error)
	FindComment(ctx context.Context, id uint64) (*model.Comment, error)
	Publish(ctx context.Context, contentType model.ActionType, id uint64) error
	SoftDelete(ctx context.Context, contentType model.ActionType, id uint64) error
	RecentPostsByAuthor(ctx context.Context, authorID uint64, since time.Time) ([]model.Post, error)
}

// QueueStore 审核队列；写操作返回生效行数，0 表示前置状态不满足
type QueueStore interface {
	Create(ctx context.Context, item *model.QueueItem) error
	FindByID(ctx context.Context, id uint64) (*model.QueueItem, error)
	ListByStatus(ctx context.Context, status model.QueueStatus) ([]model.QueueItem, error)
	History(ctx context.Context, limit int) ([]model.QueueItem, error)
	Review(ctx context.Context, id, reviewerID uint64, to model.QueueStatus, notes string) (int64, error)
	Appeal(ctx context.Context, id uint64, reason string) (int64, error)
	ResolveAppeal(ctx context.Context, id, reviewerID uint64, approved bool, notes string) (int64, error)
	Stats(ctx context.Context) (*model.QueueStats, error)
}

type ReportStore interface {
	Create(ctx context.Context, report *model.Report) error
	FindByID(ctx context.Context, id uint64) (*model.Report, error)
	ListByStatus(ctx context.Context, status model.ReportStatus) ([]model.Report, error)
	// FindVerifiedByTarget 未找到返回 (nil, nil)，error 只表示存储故障
	FindVerifiedByTarget(ctx context.Context, contentType model.ActionType, targetID uint64) (*model.Report, error)
	IncrementVerifiedCounter(ctx context.Context, id uint64) error
	Resolve(ctx context.Context, id, resolverID uint64, action model.ReportAction, note string) (int64, error)
}

// ViolationStore 违规计数与封禁级联，Increment 必须与 WarningCount 同事务
type ViolationStore interface {
	Increment(ctx context.Context, userID uint64) (newCount int, banned bool, err error)
	Block(ctx context.Context, userID uint64, duration model.BanDuration) error
	Count(ctx context.Context, userID uint64) (int, error)
	Reset(ctx context.Context, userID uint64) error
}

type UserStore interface {
	FindByID(ctx context.Context, id uint64) (*model.User, error)
}

// UserLocker 每用户串行化投稿与违规确认
type UserLocker interface {
	Acquire(ctx context.Context, userID uint64) (token string, ok bool, err error)
	Release(ctx context.Context, userID uint64, token string) error
}

// NotificationSink 通知出口，对管线而言 fire-and-forget
type NotificationSink interface {
	Deliver(ctx context.Context, recipientID uint64, audience model.NotifyAudience, subject, body string, metadata map[string]string) error
}
